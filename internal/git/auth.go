package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	appcfg "git.home.luguber.info/inful/exdoc/internal/config"
)

// authMethod builds the go-git transport credentials for a source. A nil
// config or type "none" means anonymous access.
func authMethod(auth *appcfg.Auth) (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}
	switch auth.Type {
	case "", "none":
		return nil, nil
	case "token":
		if auth.Token == "" {
			return nil, fmt.Errorf("token authentication requires a token")
		}
		// Git hosts accept the token as a basic-auth password; the
		// username is conventional.
		return &http.BasicAuth{Username: "token", Password: auth.Token}, nil
	case "basic":
		if auth.Username == "" || auth.Password == "" {
			return nil, fmt.Errorf("basic authentication requires username and password")
		}
		return &http.BasicAuth{Username: auth.Username, Password: auth.Password}, nil
	case "ssh":
		keyPath := auth.KeyPath
		if keyPath == "" {
			keyPath = filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		}
		keys, err := ssh.NewPublicKeysFromFile("git", keyPath, "")
		if err != nil {
			return nil, fmt.Errorf("loading SSH key %s: %w", keyPath, err)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("unsupported authentication type %q", auth.Type)
	}
}
