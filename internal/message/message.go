// Package message prints short status lines for the user. Status goes to
// stderr so stdout carries only command output.
package message

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	quiet     bool
	noColor   bool
	mutex     sync.RWMutex
	outWriter io.Writer = os.Stderr

	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// SetQuiet suppresses everything but warnings and errors.
func SetQuiet(q bool) {
	mutex.Lock()
	defer mutex.Unlock()
	quiet = q
}

// SetNoColor enables/disables colored output
func SetNoColor(nc bool) {
	mutex.Lock()
	defer mutex.Unlock()
	noColor = nc
	color.NoColor = nc
}

// SetOutput changes the output writer (useful for testing)
func SetOutput(w io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	outWriter = w
}

func printf(c *color.Color, prefix, format string, args ...interface{}) {
	mutex.RLock()
	defer mutex.RUnlock()

	msg := fmt.Sprintf(format, args...)
	if noColor {
		fmt.Fprintf(outWriter, "%s%s\n", prefix, msg)
	} else {
		c.Fprintf(outWriter, "%s%s\n", prefix, msg)
	}
}

func isQuiet() bool {
	mutex.RLock()
	defer mutex.RUnlock()
	return quiet
}

// Info prints an informational message unless quiet mode is enabled
func Info(format string, args ...interface{}) {
	if isQuiet() {
		return
	}
	printf(infoColor, "[*] ", format, args...)
}

// Success prints a success message unless quiet mode is enabled
func Success(format string, args ...interface{}) {
	if isQuiet() {
		return
	}
	printf(successColor, "[+] ", format, args...)
}

func Warning(format string, args ...interface{}) {
	printf(warningColor, "[!] ", format, args...)
}

// Critical reports a fatal error as "<operation>: <error>". It is never suppressed.
func Critical(operation string, err error) {
	printf(errorColor, "", "%s: %v", operation, err)
}
