package gcp

import (
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/pianostudio-backend/internal/platform/envutil"
)

// clientOptions resolves credentials for the GCS client. Inline JSON wins over
// a key file path; with neither set the client uses Application Default
// Credentials.
func clientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeFullControl)}
	creds := envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""))
	switch {
	case creds == "":
	case strings.HasPrefix(creds, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	default:
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}

// signedPutOptions builds a V4 signature for a single PUT of contentType.
// An explicit signer overrides whatever identity the client runs as.
func signedPutOptions(cfg ObjectStorageConfig, contentType string, expires time.Time) *storage.SignedURLOptions {
	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		Expires:     expires,
		ContentType: contentType,
	}
	if cfg.SignerEmail != "" {
		opts.GoogleAccessID = cfg.SignerEmail
	}
	if pk := signerKey(cfg.SignerPrivateKey); pk != nil {
		opts.PrivateKey = pk
	}
	return opts
}

// signerKey accepts the PEM block with real or escaped ("\n") newlines.
func signerKey(raw string) []byte {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return []byte(strings.ReplaceAll(raw, `\n`, "\n"))
}
