// Package config loads runtime configuration for the streamstock terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or the
//     STREAMSTOCK_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the marketplace API
//	-area string  customer, admin or supplier
//	-db string    local token database path
//	-rt int       token refresh timeout (seconds)
//	-log string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "area": "supplier",
//	  "db_path": "/var/lib/streamstock/tokens.db",
//	  "request_timeout": "30s",
//	  "refresh_timeout": "10s",
//	  "expiry_buffer": "5s",
//	  "rate_limit": 5,
//	  "log_backend": "zap",
//	  "log_level": "debug",
//	  "storage_secret": "change-me",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_region": "us-east-1",
//	  "s3_bucket": "product-images",
//	  "s3_access_key_id": "minio",
//	  "s3_secret_access_key": "minio123",
//	  "s3_public_base_url": "https://cdn.example.com/product-images"
//	}
package config
