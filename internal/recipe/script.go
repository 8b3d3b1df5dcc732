// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// launchLine returns the single command line the launch script encodes.
// For the default recipe this is exactly
// "uvicorn app:app --host 0.0.0.0 --port 7860".
func (r Recipe) launchLine() string {
	res := r.resolved()
	return strings.Join(res.LaunchCommand(), " ")
}

// LaunchCommand returns the server start command as an argument vector.
func (r Recipe) LaunchCommand() []string {
	res := r.resolved()
	return []string{
		"uvicorn", res.App.String(),
		"--host", ListenHost,
		"--port", res.Port.String(),
	}
}

// LaunchScript renders the launch script content: the launch command line
// followed by a trailing newline, nothing else. The container's default
// command executes this script, tying the container lifecycle to the
// server process.
func (r Recipe) LaunchScript() string {
	return r.launchLine() + "\n"
}

// ValidateLaunchScript parses the rendered launch script as POSIX shell and
// verifies it encodes exactly one plain command invocation. The script's
// content must match the single command it encodes, so a field value that
// smuggles a statement separator or quoting character in is rejected here
// even if the script still parses.
func (r Recipe) ValidateLaunchScript() error {
	script := r.LaunchScript()
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	file, err := parser.Parse(strings.NewReader(script), r.ResolvedScriptName())
	if err != nil {
		return fmt.Errorf("launch script does not parse as POSIX shell: %w", err)
	}
	if len(file.Stmts) != 1 {
		return fmt.Errorf("launch script must encode exactly one command, parsed %d statements", len(file.Stmts))
	}
	if _, ok := file.Stmts[0].Cmd.(*syntax.CallExpr); !ok {
		return fmt.Errorf("launch script must encode a plain command invocation")
	}
	return nil
}
