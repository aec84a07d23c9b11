// Package tracelog centralizes seelog setup so every caller configures
// logging identically instead of each hand-rolling
// seelog.LoggerFromConfigAsString.
package tracelog

import (
	"fmt"

	log "github.com/cihub/seelog"
)

const consoleTemplate = `
<seelog minlevel="%s">
	<outputs formatid="main">
		<console/>
	</outputs>
	<formats>
		<format id="main" format="%%Date(2006-01-02 15:04:05) [%%LEVEL] %%Msg%%n"/>
	</formats>
</seelog>`

// Configure replaces the package-level seelog logger with a console logger
// at the given minimum level ("debug", "info", "warn", "error", "critical").
// On failure it logs the error through the existing logger and leaves it in
// place rather than panicking.
func Configure(level string) error {
	logger, err := log.LoggerFromConfigAsString(fmt.Sprintf(consoleTemplate, level))
	if err != nil {
		log.Errorf("tracelog: cannot configure seelog at level %s: %v", level, err)
		return err
	}
	log.ReplaceLogger(logger)
	return nil
}

// Flush flushes any buffered log output; callers typically defer this right
// after Configure.
func Flush() {
	log.Flush()
}
