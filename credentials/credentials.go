package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Source identifies where the Google API credentials come from. JSON holds the serialized
// credentials (typically from an environment variable) and takes precedence over File.
type Source struct {
	JSON    string
	File    string
	Workdir string
}

func (s Source) String() string {
	if strings.TrimSpace(s.JSON) != "" {
		return "environment"
	}

	return s.File
}

// Load returns an HTTP client authorised for the scope. Service account credentials are used
// directly, OAuth2 client credentials require a tokens file previously saved alongside them.
func Load(ctx context.Context, source Source, scope string) (*http.Client, error) {
	b, err := source.read()
	if err != nil {
		return nil, err
	}

	var kind struct {
		Type      string          `json:"type"`
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}

	if err := json.Unmarshal(b, &kind); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON (%w)", err)
	}

	switch {
	case kind.Type == "service_account":
		config, err := google.JWTConfigFromJSON(b, scope)
		if err != nil {
			return nil, fmt.Errorf("invalid service account credentials (%w)", err)
		}

		return config.Client(ctx), nil

	case kind.Installed != nil || kind.Web != nil:
		config, err := google.ConfigFromJSON(b, scope)
		if err != nil {
			return nil, fmt.Errorf("invalid OAuth2 client credentials (%w)", err)
		}

		token, err := tokenFromFile(source.tokens())
		if err != nil {
			return nil, fmt.Errorf("missing OAuth2 tokens for client credentials (%w)", err)
		}

		return config.Client(ctx, token), nil

	default:
		return nil, fmt.Errorf("unsupported credentials type '%v'", kind.Type)
	}
}

func (s Source) read() ([]byte, error) {
	if v := strings.TrimSpace(s.JSON); v != "" {
		return []byte(v), nil
	}

	if strings.TrimSpace(s.File) == "" {
		return nil, fmt.Errorf("no Google API credentials - set GOOGLE_CREDENTIALS or --credentials")
	}

	if err := readable(s.File); err != nil {
		return nil, fmt.Errorf("credentials file %v is not readable (%w)", s.File, err)
	}

	b, err := os.ReadFile(s.File)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// tokens returns the path of the OAuth2 tokens file for the credentials file, e.g.
// <workdir>/credentials.tokens for credentials.json.
func (s Source) tokens() string {
	dir, file := filepath.Split(s.File)
	name := strings.TrimSuffix(file, filepath.Ext(file))
	if name == "" {
		name = "credentials"
	}

	if s.Workdir != "" {
		dir = s.Workdir
	}

	return filepath.Join(dir, fmt.Sprintf("%s.tokens", name))
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}

	return token, nil
}

// Authorise runs the console OAuth2 flow for client credentials: the consent URL is written to
// out, the authorisation code is read from in and the exchanged token is saved to the tokens
// file, whose path is returned.
func Authorise(ctx context.Context, source Source, scope string, in io.Reader, out io.Writer) (string, error) {
	b, err := source.read()
	if err != nil {
		return "", err
	}

	config, err := google.ConfigFromJSON(b, scope)
	if err != nil {
		return "", fmt.Errorf("invalid OAuth2 client credentials (%w)", err)
	}

	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Fprintf(out, "Open the following link in your browser and then enter the authorisation code:\n\n  %v\n\n> ", url)

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return "", fmt.Errorf("unable to read authorisation code (%w)", err)
	}

	token, err := config.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("unable to retrieve token (%w)", err)
	}

	tokens := source.tokens()
	if err := saveToken(tokens, token); err != nil {
		return "", err
	}

	return tokens, nil
}

func saveToken(file string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save OAuth2 tokens (%w)", err)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
