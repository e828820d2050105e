// Package login exchanges an emailed login code for API tokens and writes
// the key file the battle command reads.
package login

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	entrypoint "github.com/louisbranch/battlebot/internal/platform/cmd"
	apperrors "github.com/louisbranch/battlebot/internal/platform/errors"
	"github.com/louisbranch/battlebot/internal/services/battle/client"
	"github.com/louisbranch/battlebot/internal/services/battle/keys"
)

const codeLength = 6

// Config holds login command configuration.
type Config struct {
	APIURL   string `env:"BATTLEBOT_API_URL" envDefault:"https://battle-system-api.crabada.com"`
	KeysPath string `env:"BATTLEBOT_KEYS_PATH" envDefault:"battle_keys.json"`

	Email string
	Code  string
	// RequestCode asks the API to email a code before prompting for it.
	RequestCode bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "The battle API base URL")
	fs.StringVar(&cfg.KeysPath, "keys-path", cfg.KeysPath, "Where to write the token key file")
	fs.StringVar(&cfg.Email, "email", "", "Account email, exactly as entered in the game (prompted when empty)")
	fs.StringVar(&cfg.Code, "code", "", "Six digit login code (prompted when empty)")
	fs.BoolVar(&cfg.RequestCode, "request-code", false, "Request a login code by email first")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run prompts for any missing input on in, logs in and writes the key file.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	api := client.New(cfg.APIURL, "")
	prompt := &prompter{scanner: bufio.NewScanner(in), out: out}

	email := strings.TrimSpace(cfg.Email)
	if email == "" {
		fmt.Fprintln(out, "go into the battle game, put in your email address, and hit send code")
		fmt.Fprintln(out, "you need to enter the exact same email (case sensitive) below")
		var err error
		if email, err = prompt.ask("Input email: "); err != nil {
			return err
		}
		if cfg.Code == "" && !cfg.RequestCode {
			answer, err := prompt.ask("Request code? (y/n): ")
			if err != nil {
				return err
			}
			cfg.RequestCode = isYes(answer)
		}
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}

	if cfg.RequestCode {
		if err := api.RequestLoginCode(ctx, email); err != nil {
			return fmt.Errorf("request login code: %w", err)
		}
		fmt.Fprintln(out, "login code requested")
	}

	code := strings.TrimSpace(cfg.Code)
	if code == "" {
		fmt.Fprintf(out, "you should have or get an email with a %d digit code. enter that here\n", codeLength)
		var err error
		if code, err = prompt.ask("Input code: "); err != nil {
			return err
		}
	}
	if err := ValidateCode(code); err != nil {
		return err
	}

	result, err := api.Login(ctx, email, code)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := keys.Save(cfg.KeysPath, keys.Keys{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Done writing %s\n", cfg.KeysPath)
	return nil
}

// ValidateEmail checks the address looks like an email.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("does not look like an email: %q", email))
	}
	return nil
}

// ValidateCode checks the login code is exactly six digits.
func ValidateCode(code string) error {
	if len(code) != codeLength {
		return apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("expected a %d digit code: %q", codeLength, code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("expected only numbers in the code: %q", code))
		}
	}
	return nil
}

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errors.New("read input: unexpected end of input")
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "t", "true", "on", "1":
		return true
	default:
		return false
	}
}
