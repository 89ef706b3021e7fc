// Package config provides centralized configuration management for SalesPulse.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones field by field:
//
//  1. Default values (Default)
//  2. A YAML file named by SALESPULSE_CONFIG_FILE, or config.yaml /
//     configs/config.yaml in the working directory
//  3. Environment variables (highest priority)
//
// # Environment Variables
//
// Variables follow the section structure under the SALESPULSE prefix:
//
//	SALESPULSE_SERVER_PORT=8080
//	SALESPULSE_SERVER_MAX_UPLOAD_BYTES=20971520
//	SALESPULSE_LOGGING_LEVEL=debug
//	SALESPULSE_INGESTION_MIN_QUALITY_SCORE=80
//	SALESPULSE_FORECAST_MAX_PERIODS=24
//	SALESPULSE_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Example YAML
//
//	server:
//	  port: 9090
//	ingestion:
//	  upload_ttl: 30m
//	  parallel_threshold: 5000
//	forecast:
//	  default_method: moving_average
//
// Load validates the merged result and returns an error describing the first
// invalid field.
package config
