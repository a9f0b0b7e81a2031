// Package spnego unwraps SPNEGO negotiation tokens sent by browsers in
// Negotiate authorization headers. It wraps
// github.com/jcmturner/gokrb5/v8/spnego to classify the inner mechanism
// and surface the mechanism token for further parsing.
package spnego

import (
	"github.com/jcmturner/gofork/encoding/asn1"
	"github.com/jcmturner/gokrb5/v8/spnego"

	"github.com/adgate-io/adgate/internal/domain/ntlm"
	apperrors "github.com/adgate-io/adgate/internal/errors"
)

// Well-known mechanism OIDs seen in browser Negotiate tokens.
var (
	// OIDMSKerberosV5 is Microsoft's Kerberos 5 OID (1.2.840.48018.1.2.2).
	OIDMSKerberosV5 = asn1.ObjectIdentifier{1, 2, 840, 48018, 1, 2, 2}

	// OIDKerberosV5 is the standard Kerberos 5 OID (1.2.840.113554.1.2.2).
	OIDKerberosV5 = asn1.ObjectIdentifier{1, 2, 840, 113554, 1, 2, 2}

	// OIDNTLMSSP is the NTLM Security Support Provider OID (1.3.6.1.4.1.311.2.2.10).
	OIDNTLMSSP = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 2, 10}
)

// Mechanism classifies the inner token of a Negotiate exchange.
type Mechanism string

const (
	MechanismNTLM     Mechanism = "ntlm"
	MechanismKerberos Mechanism = "kerberos"
	MechanismUnknown  Mechanism = "unknown"
)

// Token is the unwrapped content of a SPNEGO message.
type Token struct {
	Mechanism Mechanism
	// MechToken is the inner mechanism token (e.g., an NTLM message).
	MechToken []byte
}

// Unwrap parses a SPNEGO token and classifies its mechanism.
//
// Browsers occasionally send a bare NTLM message under the Negotiate
// scheme instead of a SPNEGO wrapper; that case is detected up front and
// returned as an NTLM token unchanged.
func Unwrap(data []byte) (Token, error) {
	if len(data) < 2 {
		return Token{}, apperrors.ParseFailure("negotiate token too short")
	}

	if ntlm.IsMessage(data) {
		return Token{Mechanism: MechanismNTLM, MechToken: data}, nil
	}

	isInit, parsed, err := spnego.UnmarshalNegToken(data)
	if err != nil {
		return Token{}, apperrors.Wrap(err, apperrors.ErrCodeParseFailure, "negotiate token unmarshal failed")
	}

	if isInit {
		initToken, ok := parsed.(spnego.NegTokenInit)
		if !ok {
			return Token{}, apperrors.ParseFailure("unexpected negotiate init token shape")
		}
		return Token{
			Mechanism: classify(initToken.MechTypes, initToken.MechTokenBytes),
			MechToken: initToken.MechTokenBytes,
		}, nil
	}

	respToken, ok := parsed.(spnego.NegTokenResp)
	if !ok {
		return Token{}, apperrors.ParseFailure("unexpected negotiate response token shape")
	}
	mechs := []asn1.ObjectIdentifier{}
	if respToken.SupportedMech != nil {
		mechs = append(mechs, respToken.SupportedMech)
	}
	return Token{
		Mechanism: classify(mechs, respToken.ResponseToken),
		MechToken: respToken.ResponseToken,
	}, nil
}

// classify determines the mechanism from the offered OIDs, falling back
// to sniffing the inner token when the OID list is inconclusive.
func classify(mechs []asn1.ObjectIdentifier, mechToken []byte) Mechanism {
	for _, mech := range mechs {
		switch {
		case mech.Equal(OIDNTLMSSP):
			return MechanismNTLM
		case mech.Equal(OIDKerberosV5), mech.Equal(OIDMSKerberosV5):
			return MechanismKerberos
		}
	}
	if ntlm.IsMessage(mechToken) {
		return MechanismNTLM
	}
	return MechanismUnknown
}
