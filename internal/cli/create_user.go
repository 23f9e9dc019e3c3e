package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/eceeb/search-portal/internal/validation"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ErrLoginCheckFailed means the new account could not be logged into.
var ErrLoginCheckFailed = errors.New("password check after create failed")

// CreateUser parses -username and -email from args, reads the password from
// the terminal (without echo) or from the first line of in, creates the user
// and checks that the password verifies.
func CreateUser(ctx context.Context, args []string, in io.Reader, out io.Writer, users UserStore) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(out)
	username := fs.String("username", "", "username of the new account")
	email := fs.String("email", "", "email of the new account")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := readPasswordFrom(in, out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	reg := validation.Registration{Username: *username, Email: *email, Password: password}
	if err := reg.Validate(); err != nil {
		return err
	}

	user, err := users.CreateUser(ctx, *username, *email, password)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	verified, err := users.VerifyUserPassword(ctx, *email, password)
	if err != nil {
		return fmt.Errorf("verify user: %w", err)
	}
	if verified == nil || verified.ID != user.ID {
		return ErrLoginCheckFailed
	}

	fmt.Fprintf(out, "created user %s (%s, %s)\n", user.ID, user.Username, user.Email)
	return nil
}

func readPasswordFrom(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
