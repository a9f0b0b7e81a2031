// Package ldap implements the Directory port against an LDAP server
// using github.com/go-ldap/ldap/v3.
//
// Authentication uses two binds on separate connections: a service
// account bind locates the user entry, then a fresh connection binds as
// the user's own DN to verify the password. The lookup connection never
// carries user credentials.
package ldap

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strings"

	goldap "github.com/go-ldap/ldap/v3"

	"github.com/adgate-io/adgate/config"
	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	apperrors "github.com/adgate-io/adgate/internal/errors"
)

// userAttributes are the directory attributes mapped into DirectoryUser.
var userAttributes = []string{
	"cn",
	"sn",
	"givenName",
	"mail",
	"sAMAccountName",
	"memberOf",
	"department",
	"title",
	"telephoneNumber",
}

// Client resolves and authenticates users against an LDAP directory.
type Client struct {
	cfg    config.DirectoryConfig
	logger *slog.Logger
}

// NewClient creates a directory client. The client dials per operation;
// it holds no pooled connections.
func NewClient(cfg config.DirectoryConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, logger: logger}
}

// Authenticate verifies username/password and returns the user's profile.
func (c *Client) Authenticate(ctx context.Context, username, password string) (domainauth.DirectoryUser, error) {
	if username == "" || password == "" {
		return domainauth.DirectoryUser{}, apperrors.ValidationField("password", "username and password are required")
	}

	user, err := c.Lookup(ctx, username)
	if err != nil {
		return domainauth.DirectoryUser{}, err
	}

	// Second connection: bind as the located entry to verify the password.
	conn, err := c.dial(ctx)
	if err != nil {
		return domainauth.DirectoryUser{}, err
	}
	defer conn.Close()

	if err := conn.Bind(user.DN, password); err != nil {
		if goldap.IsErrorWithCode(err, goldap.LDAPResultInvalidCredentials) {
			return domainauth.DirectoryUser{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidCredentials, "directory rejected credentials")
		}
		return domainauth.DirectoryUser{}, apperrors.Wrap(err, apperrors.ErrCodeDirectoryUnavailable, "user bind failed")
	}

	return user, nil
}

// Lookup finds the directory entry matching the account name or mail
// address and maps it to a profile. No password is involved.
func (c *Client) Lookup(ctx context.Context, username string) (domainauth.DirectoryUser, error) {
	if username == "" {
		return domainauth.DirectoryUser{}, apperrors.ValidationField("username", "username is required")
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return domainauth.DirectoryUser{}, err
	}
	defer conn.Close()

	if c.cfg.BindDN != "" {
		if err := conn.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
			return domainauth.DirectoryUser{}, apperrors.Wrap(err, apperrors.ErrCodeDirectoryUnavailable, "service bind failed")
		}
	}

	req := goldap.NewSearchRequest(
		c.cfg.BaseDN,
		goldap.ScopeWholeSubtree,
		goldap.NeverDerefAliases,
		0, // no size limit; ambiguity handled below
		int(c.cfg.OperationTimeout.Seconds()),
		false,
		SearchFilter(username),
		userAttributes,
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		return domainauth.DirectoryUser{}, apperrors.Wrap(err, apperrors.ErrCodeDirectoryUnavailable, "directory search failed")
	}

	if len(res.Entries) == 0 {
		return domainauth.DirectoryUser{}, apperrors.NotFoundf("no directory entry for %s", username)
	}
	if len(res.Entries) > 1 {
		c.logger.Warn("directory search matched multiple entries, using first",
			"username", username,
			"matches", len(res.Entries))
	}

	return MapEntry(res.Entries[0]), nil
}

// dial opens a connection with the configured timeouts, negotiating TLS
// for ldaps URLs.
func (c *Client) dial(ctx context.Context) (*goldap.Conn, error) {
	dialer := &net.Dialer{Timeout: c.cfg.DialTimeout}
	opts := []goldap.DialOpt{goldap.DialWithDialer(dialer)}
	if strings.HasPrefix(c.cfg.URL, "ldaps://") {
		opts = append(opts, goldap.DialWithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}))
	}

	conn, err := goldap.DialURL(c.cfg.URL, opts...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDirectoryUnavailable, "directory dial failed")
	}
	conn.SetTimeout(c.cfg.OperationTimeout)

	// Respect context cancellation between dial and use.
	select {
	case <-ctx.Done():
		conn.Close()
		return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeDirectoryUnavailable, "directory dial canceled")
	default:
	}

	return conn, nil
}

// SearchFilter builds the user search filter, matching the account name
// or mail address. Input is escaped against filter injection.
func SearchFilter(username string) string {
	escaped := goldap.EscapeFilter(username)
	return fmt.Sprintf("(|(sAMAccountName=%s)(mail=%s))", escaped, escaped)
}

// MapEntry maps a directory entry onto a DirectoryUser, normalizing
// memberOf values to short group names.
func MapEntry(entry *goldap.Entry) domainauth.DirectoryUser {
	user := domainauth.DirectoryUser{
		Username:    entry.GetAttributeValue("sAMAccountName"),
		DN:          entry.DN,
		DisplayName: entry.GetAttributeValue("cn"),
		FirstName:   entry.GetAttributeValue("givenName"),
		LastName:    entry.GetAttributeValue("sn"),
		Email:       entry.GetAttributeValue("mail"),
		Department:  entry.GetAttributeValue("department"),
		Title:       entry.GetAttributeValue("title"),
		Phone:       entry.GetAttributeValue("telephoneNumber"),
	}
	for _, dn := range entry.GetAttributeValues("memberOf") {
		user.Groups = append(user.Groups, domainauth.GroupName(dn))
	}
	return user
}
