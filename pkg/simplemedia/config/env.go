package config

import "github.com/ilyakaznacheev/cleanenv"

// WithEnv applies environment variable overrides via cleanenv.
//
// Variables:
//
//	PORT, ENVIRONMENT
//	REGISTRY_TYPE ("memory" or "postgres"), DATABASE_URL
//	STORAGE_TYPE ("memory", "fs" or "s3"), FS_BASE_DIR,
//	S3_REGION, S3_BUCKET, S3_ENDPOINT, CDN_BASE_URL
//	FFMPEG_PATH, FFPROBE_PATH
//	PROCESSING_TIMEOUT, ENABLE_AUDIT_LOG
func WithEnv() Option {
	return func(c *ServerConfig) error {
		return cleanenv.ReadEnv(c)
	}
}
