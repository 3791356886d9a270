package config

import (
	"flag"
	"os"

	"github.com/mkalvans/buttervault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   datasource type: file, memory, s3, postgres
//	-p string   vault persistence path (file path, object key, or vault name)
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 endpoint (e.g., "http://127.0.0.1:9000/")
//	-u string   S3 access key
//	-s string   S3 secret key
//	-d string   PostgreSQL DSN
//
// os.Args is pre-filtered with flagx.FilterArgs so flags defined elsewhere
// (like -c/-config for the JSON overlay) pass through untouched.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-p", "-b", "-g", "-e", "-u", "-s", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatasourceType, "t", config.DatasourceType, "datasource type")
	fs.StringVar(&config.VaultPath, "p", config.VaultPath, "vault persistence path")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3Endpoint, "e", config.S3Endpoint, "S3 endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "s", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
