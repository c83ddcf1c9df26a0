// Package cli parses mockprep command-line arguments.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandStart     Command = "start"
	CommandNext      Command = "next"
	CommandDraft     Command = "draft"
	CommandStatus    Command = "status"
	CommandRestart   Command = "restart"
	CommandReport    Command = "report"
	CommandPrepare   Command = "prepare"
	CommandQuestions Command = "questions"
	CommandAdmin     Command = "admin"
	CommandRole      Command = "role"
	CommandDevices   Command = "devices"
	CommandDoctor    Command = "doctor"
	CommandVersion   Command = "version"
	CommandHelp      Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandStart:     {},
	CommandNext:      {},
	CommandDraft:     {},
	CommandStatus:    {},
	CommandRestart:   {},
	CommandReport:    {},
	CommandPrepare:   {},
	CommandQuestions: {},
	CommandAdmin:     {},
	CommandRole:      {},
	CommandDevices:   {},
	CommandDoctor:    {},
	CommandVersion:   {},
	CommandHelp:      {},
}

// RoleAction selects the `role` subcommand.
type RoleAction string

const (
	RoleSet   RoleAction = "set"
	RoleClear RoleAction = "clear"
)

// Parsed is the result of Parse. Command-specific fields are zero unless the
// matching command was given.
type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	// start
	Custom bool
	// draft
	Text string
	// report
	PDFPath string
	// prepare
	JobRole    string
	Experience string
	Skills     string
	// role
	RoleAction RoleAction
	RoleName   string
	Email      string
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if err := parseCommandArgs(&parsed, args[i+1:]); err != nil {
				return Parsed{}, err
			}
			return parsed, nil
		}
	}

	return parsed, nil
}

func parseCommandArgs(parsed *Parsed, rest []string) error {
	switch parsed.Command {
	case CommandStart:
		return parseFlags(parsed.Command, rest, map[string]*string{}, map[string]*bool{"--custom": &parsed.Custom})
	case CommandDraft:
		parsed.Text = strings.Join(rest, " ")
		return nil
	case CommandReport:
		return parseFlags(parsed.Command, rest, map[string]*string{"--pdf": &parsed.PDFPath}, nil)
	case CommandPrepare:
		if err := parseFlags(parsed.Command, rest, map[string]*string{
			"--role":       &parsed.JobRole,
			"--experience": &parsed.Experience,
			"--skills":     &parsed.Skills,
		}, nil); err != nil {
			return err
		}
		if strings.TrimSpace(parsed.JobRole) == "" {
			return errors.New("prepare requires --role")
		}
		return nil
	case CommandRole:
		return parseRole(parsed, rest)
	default:
		if len(rest) > 0 {
			return fmt.Errorf("unexpected arguments after command %q", parsed.Command)
		}
		return nil
	}
}

func parseRole(parsed *Parsed, rest []string) error {
	if len(rest) == 0 {
		return errors.New("role requires set or clear")
	}

	switch RoleAction(rest[0]) {
	case RoleSet:
		parsed.RoleAction = RoleSet
		if len(rest) < 2 || strings.HasPrefix(rest[1], "-") {
			return errors.New("role set requires a role name (user or admin)")
		}
		parsed.RoleName = rest[1]
		return parseFlags(parsed.Command, rest[2:], map[string]*string{"--email": &parsed.Email}, nil)
	case RoleClear:
		parsed.RoleAction = RoleClear
		if len(rest) > 1 {
			return errors.New("unexpected arguments after role clear")
		}
		return nil
	default:
		return fmt.Errorf("unknown role action: %s", rest[0])
	}
}

// parseFlags consumes `--name value` and boolean `--name` pairs.
func parseFlags(cmd Command, rest []string, values map[string]*string, bools map[string]*bool) error {
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if dst, ok := bools[arg]; ok {
			*dst = true
			continue
		}
		dst, ok := values[arg]
		if !ok {
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("unknown flag for %s: %s", cmd, arg)
			}
			return fmt.Errorf("unexpected arguments after command %q", cmd)
		}
		i++
		if i >= len(rest) {
			return fmt.Errorf("%s requires a value", arg)
		}
		*dst = rest[i]
	}
	return nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command> [args]

Commands:
  start [--custom]       Run an interview session in this terminal
  next                   Submit the current answer and advance
  draft TEXT             Replace the current answer draft
  status                 Print current session state
  restart                Discard the session and start over
  report [--pdf PATH]    Show feedback for the latest interview
  prepare --role ROLE [--experience TEXT] [--skills a,b]
                         Generate a custom question set
  questions              List the active question bank
  admin                  Show the question bank (admin role only)
  role set NAME [--email EMAIL] | role clear
                         Set or clear the local user role
  devices                List available input devices
  doctor                 Run configuration and environment checks
  version                Print version information
  help                   Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/mockprep/config.jsonc)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
