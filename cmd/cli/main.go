// Command gf is a CLI client for the feed service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ---- config/token store ----

type tokenFile struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "gophfeed")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gophfeed")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(username, tok string) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{Username: username, Token: tok})
}

func loadToken() (tokenFile, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return tokenFile{}, err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return tokenFile{}, err
	}
	if tf.Token == "" {
		return tokenFile{}, errors.New("no token (login required)")
	}
	return tf, nil
}

func clearToken() error {
	err := os.Remove(tokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ---- utils ----

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func usage() {
	fmt.Fprintf(os.Stderr, `gf CLI
Usage:
  gf [-server URL] <cmd> [args]

Commands:
  version
  register   -u <username> -p <password>           (saves token)
  login      -u <username> -p <password>           (saves token)
  logout
  me
  user       <username>
  follow     <username>
  following  <username>
  followers  <username>
  post       [-file <path|->] [text...]
  timeline   [-page N] [-size N]
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

func defaultServer() string {
	if v := os.Getenv("GF_SERVER"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}

// main dispatches subcommands against the HTTP API.
func main() {
	server := flag.String("server", defaultServer(), "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, *server, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			usage()
		}
		fail(err)
	}
}

var errUsage = errors.New("usage")

func needArg(args []string, what string) (string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", fmt.Errorf("need %s", what)
	}
	return args[0], nil
}

func credsFlags(name string, args []string) (string, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	u := fs.String("u", "", "username")
	p := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *u == "" || *p == "" {
		return "", "", errors.New("need -u and -p")
	}
	return *u, *p, nil
}

func authed(server string) (*client, tokenFile, error) {
	tf, err := loadToken()
	if err != nil {
		return nil, tokenFile{}, err
	}
	return newClient(server, tf.Token), tf, nil
}

func run(ctx context.Context, server, cmd string, args []string) error {
	switch cmd {

	case "version":
		fmt.Printf("gf %s (%s)\n", version, buildDate)

	case "register":
		u, p, err := credsFlags(cmd, args)
		if err != nil {
			return err
		}
		tok, err := newClient(server, "").Register(ctx, u, p)
		if err != nil {
			return err
		}
		if err := saveToken(u, tok); err != nil {
			return err
		}
		fmt.Println("ok")

	case "login":
		u, p, err := credsFlags(cmd, args)
		if err != nil {
			return err
		}
		tok, err := newClient(server, "").Login(ctx, u, p)
		if err != nil {
			return err
		}
		if err := saveToken(u, tok); err != nil {
			return err
		}
		fmt.Println("ok")

	case "logout":
		c, tf, err := authed(server)
		if err != nil {
			return err
		}
		if err := c.Logout(ctx, tf.Username); err != nil {
			return err
		}
		if err := clearToken(); err != nil {
			return err
		}
		fmt.Println("ok")

	case "me":
		c, _, err := authed(server)
		if err != nil {
			return err
		}
		out, err := c.Me(ctx)
		if err != nil {
			return err
		}
		printJSON(out)

	case "user":
		name, err := needArg(args, "<username>")
		if err != nil {
			return err
		}
		out, err := newClient(server, "").User(ctx, name)
		if err != nil {
			return err
		}
		printJSON(out)

	case "follow":
		name, err := needArg(args, "<username>")
		if err != nil {
			return err
		}
		c, _, err := authed(server)
		if err != nil {
			return err
		}
		if err := c.Follow(ctx, name); err != nil {
			return err
		}
		fmt.Println("ok")

	case "following", "followers":
		name, err := needArg(args, "<username>")
		if err != nil {
			return err
		}
		c := newClient(server, "")
		list := c.Following
		if cmd == "followers" {
			list = c.Followers
		}
		out, err := list(ctx, name)
		if err != nil {
			return err
		}
		printJSON(out)

	case "post":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		file := fs.String("file", "", "content file ('-'=stdin)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		content := strings.Join(fs.Args(), " ")
		if *file != "" {
			b, err := readAll(*file)
			if err != nil {
				return err
			}
			content = strings.TrimRight(string(b), "\n")
		}
		c, _, err := authed(server)
		if err != nil {
			return err
		}
		out, err := c.Post(ctx, content)
		if err != nil {
			return err
		}
		printJSON(out)

	case "timeline":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		page := fs.Int("page", 0, "page number (1-based)")
		size := fs.Int("size", 0, "page size (max 20)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		c, _, err := authed(server)
		if err != nil {
			return err
		}
		out, err := c.Timeline(ctx, *page, *size)
		if err != nil {
			return err
		}
		printJSON(out)

	default:
		return errUsage
	}
	return nil
}

// ---- helpers ----

func fail(err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		fmt.Fprintf(os.Stderr, "http error: status=%d msg=%s\n", ae.Status, ae.Message)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
