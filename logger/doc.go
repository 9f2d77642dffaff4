// Package logger provides structured logging on top of zerolog.
//
// Fields are passed as maps so call sites stay free of zerolog's builder
// chain:
//
//	log := logger.NewDefault("h2bridge").WithComponent("client")
//	log.Debug("stream reserved", logger.Fields("address", addr))
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"   # json | console
//	  output: "stderr" # stdout | stderr
package logger
