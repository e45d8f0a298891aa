package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Configure sets up the standard logrus logger used across the service.
func Configure(level, format string, out io.Writer) error {
	if out == nil {
		out = os.Stderr
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	log.SetOutput(out)
	if format == "text" {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}
