// Package ingest accepts beacon readings over HTTP and raw TCP and hands them to a Recorder.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/beacon"
)

// ErrMalformedLine is returned for a TCP line that is not "<beacon> <rssi>"
var ErrMalformedLine = errors.New("malformed line")

// Recorder persists one reading
type Recorder interface {
	Record(beaconID, rssi string) error
}

// Backend is a Recorder that also reports runtime stats, *beacon.Logger satisfies it
type Backend interface {
	Recorder
	Stats() beacon.Stats
}

// parseLine splits a line into beacon id and rssi, fields separated by any run of spaces or tabs
func parseLine(line string) (beaconID, rssi string, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("%w: want '<beacon> <rssi>', got %d fields", ErrMalformedLine, len(fields))
	}
	return fields[0], fields[1], nil
}

// replyError renders err as a single protocol line
func replyError(err error) string {
	msg := strings.NewReplacer("\r", " ", "\n", " ").Replace(err.Error())
	return "ERR " + msg + "\n"
}
