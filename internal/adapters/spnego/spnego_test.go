package spnego

import (
	"encoding/binary"
	"testing"

	"github.com/jcmturner/gofork/encoding/asn1"
	gospnego "github.com/jcmturner/gokrb5/v8/spnego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/adgate-io/adgate/internal/errors"
)

// ntlmNegotiate builds a minimal NTLM Type 1 message.
func ntlmNegotiate() []byte {
	msg := make([]byte, 32)
	copy(msg, "NTLMSSP\x00")
	binary.LittleEndian.PutUint32(msg[8:12], 1)
	return msg
}

func TestUnwrap_BareNTLM(t *testing.T) {
	raw := ntlmNegotiate()

	tok, err := Unwrap(raw)
	require.NoError(t, err)
	assert.Equal(t, MechanismNTLM, tok.Mechanism)
	assert.Equal(t, raw, tok.MechToken)
}

func TestUnwrap_NegTokenRespWithNTLM(t *testing.T) {
	inner := ntlmNegotiate()
	resp := gospnego.NegTokenResp{
		NegState:      asn1.Enumerated(1),
		SupportedMech: OIDNTLMSSP,
		ResponseToken: inner,
	}
	raw, err := resp.Marshal()
	require.NoError(t, err)

	tok, err := Unwrap(raw)
	require.NoError(t, err)
	assert.Equal(t, MechanismNTLM, tok.Mechanism)
	assert.Equal(t, inner, tok.MechToken)
}

func TestUnwrap_NegTokenRespWithKerberos(t *testing.T) {
	resp := gospnego.NegTokenResp{
		NegState:      asn1.Enumerated(1),
		SupportedMech: OIDKerberosV5,
		ResponseToken: []byte{0x60, 0x01, 0x02},
	}
	raw, err := resp.Marshal()
	require.NoError(t, err)

	tok, err := Unwrap(raw)
	require.NoError(t, err)
	assert.Equal(t, MechanismKerberos, tok.Mechanism)
}

func TestUnwrap_Garbage(t *testing.T) {
	_, err := Unwrap([]byte("this is not asn1"))
	require.Error(t, err)
	assert.True(t, apperrors.IsParseFailure(err))
}

func TestUnwrap_TooShort(t *testing.T) {
	_, err := Unwrap([]byte{0x60})
	require.Error(t, err)
	assert.True(t, apperrors.IsParseFailure(err))
}

func TestClassify_SniffsInnerToken(t *testing.T) {
	// No OIDs offered but the inner token is plainly NTLM.
	got := classify(nil, ntlmNegotiate())
	assert.Equal(t, MechanismNTLM, got)

	got = classify(nil, []byte{0x01, 0x02})
	assert.Equal(t, MechanismUnknown, got)
}
