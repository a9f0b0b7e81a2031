// Package samlbridge implements the optional SAML bridge: redirecting
// to an external IdP and mapping posted assertions onto directory users.
//
// Assertion signature validation is delegated to the fronting
// infrastructure that terminates the IdP connection; the bridge maps
// already-trusted assertions onto sessions.
package samlbridge

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adgate-io/adgate/config"
	domainauth "github.com/adgate-io/adgate/internal/domain/auth"
	apperrors "github.com/adgate-io/adgate/internal/errors"
)

// Claim URI fallback chains, probed in order. IdPs differ on whether
// they emit friendly names or full claim URIs.
var (
	emailClaims = []string{
		"email",
		"EmailAddress",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress",
	}
	displayNameClaims = []string{
		"displayName",
		"DisplayName",
		"http://schemas.microsoft.com/ws/2008/06/identity/claims/displayname",
	}
	givenNameClaims = []string{
		"givenName",
		"GivenName",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/givenname",
	}
	surnameClaims = []string{
		"surname",
		"Surname",
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/surname",
	}
	groupsClaims = []string{
		"groups",
		"Groups",
		"http://schemas.microsoft.com/ws/2008/06/identity/claims/groups",
	}
)

// Bridge builds IdP redirects and maps posted assertions.
type Bridge struct {
	cfg config.SAMLConfig
	now func() time.Time
}

// NewBridge creates a Bridge from configuration.
func NewBridge(cfg config.SAMLConfig) *Bridge {
	return &Bridge{cfg: cfg, now: time.Now}
}

// LoginURL builds the IdP redirect carrying a deflated, base64-encoded
// AuthnRequest (HTTP-Redirect binding). relayState is echoed back by
// the IdP and may be empty.
func (b *Bridge) LoginURL(relayState string) (string, error) {
	if b.cfg.EntryPoint == "" {
		return "", apperrors.Validation("saml entry point is not configured")
	}

	request := fmt.Sprintf(
		`<samlp:AuthnRequest xmlns:samlp="urn:oasis:names:tc:SAML:2.0:protocol" xmlns:saml="urn:oasis:names:tc:SAML:2.0:assertion" ID="_%s" Version="2.0" IssueInstant="%s" ProtocolBinding="urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST" AssertionConsumerServiceURL="%s"><saml:Issuer>%s</saml:Issuer></samlp:AuthnRequest>`,
		uuid.NewString(),
		b.now().UTC().Format(time.RFC3339),
		xmlEscape(b.cfg.CallbackURL),
		xmlEscape(b.cfg.Issuer),
	)

	var deflated bytes.Buffer
	w, err := flate.NewWriter(&deflated, flate.DefaultCompression)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "authn request compression failed")
	}
	if _, err := w.Write([]byte(request)); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "authn request compression failed")
	}
	if err := w.Close(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "authn request compression failed")
	}

	u, err := url.Parse(b.cfg.EntryPoint)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeValidation, "saml entry point is not a valid URL")
	}
	q := u.Query()
	q.Set("SAMLRequest", base64.StdEncoding.EncodeToString(deflated.Bytes()))
	if relayState != "" {
		q.Set("RelayState", relayState)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// response mirrors the subset of a SAML Response the bridge reads.
type response struct {
	XMLName xml.Name `xml:"Response"`
	Status  struct {
		StatusCode struct {
			Value string `xml:"Value,attr"`
		} `xml:"StatusCode"`
	} `xml:"Status"`
	Assertion assertion `xml:"Assertion"`
}

type assertion struct {
	Subject struct {
		NameID string `xml:"NameID"`
	} `xml:"Subject"`
	AttributeStatement struct {
		Attributes []attribute `xml:"Attribute"`
	} `xml:"AttributeStatement"`
}

type attribute struct {
	Name   string   `xml:"Name,attr"`
	Values []string `xml:"AttributeValue"`
}

// ParseResponse decodes a posted base64 SAMLResponse and maps its
// assertion onto a directory user profile.
func (b *Bridge) ParseResponse(encoded string) (domainauth.DirectoryUser, error) {
	if encoded == "" {
		return domainauth.DirectoryUser{}, apperrors.ValidationField("SAMLResponse", "SAMLResponse is required")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return domainauth.DirectoryUser{}, apperrors.Wrap(err, apperrors.ErrCodeParseFailure, "SAMLResponse is not valid base64")
	}

	var resp response
	if err := xml.Unmarshal(raw, &resp); err != nil {
		return domainauth.DirectoryUser{}, apperrors.Wrap(err, apperrors.ErrCodeParseFailure, "SAMLResponse is not a valid assertion document")
	}

	if code := resp.Status.StatusCode.Value; code != "" && !strings.HasSuffix(code, ":Success") {
		return domainauth.DirectoryUser{}, apperrors.Newf(apperrors.ErrCodeInvalidCredentials, "identity provider returned %s", code)
	}

	nameID := strings.TrimSpace(resp.Assertion.Subject.NameID)
	if nameID == "" {
		return domainauth.DirectoryUser{}, apperrors.ParseFailure("assertion carries no NameID")
	}

	attrs := map[string][]string{}
	for _, a := range resp.Assertion.AttributeStatement.Attributes {
		attrs[a.Name] = append(attrs[a.Name], a.Values...)
	}

	user := domainauth.DirectoryUser{
		Username:    nameID,
		DisplayName: firstClaim(attrs, displayNameClaims),
		FirstName:   firstClaim(attrs, givenNameClaims),
		LastName:    firstClaim(attrs, surnameClaims),
		Email:       firstClaim(attrs, emailClaims),
		Groups:      allClaims(attrs, groupsClaims),
	}
	if user.DisplayName == "" {
		user.DisplayName = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	if user.DisplayName == "" {
		user.DisplayName = nameID
	}
	return user, nil
}

// firstClaim returns the first value found along a claim fallback chain.
func firstClaim(attrs map[string][]string, names []string) string {
	for _, name := range names {
		for _, v := range attrs[name] {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// allClaims returns every value of the first claim name that has any.
func allClaims(attrs map[string][]string, names []string) []string {
	for _, name := range names {
		var out []string
		for _, v := range attrs[name] {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
