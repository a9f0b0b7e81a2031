// Package ntlm parses NTLM authenticate messages well enough to extract
// the identity a Windows client asserts. The broker never completes the
// challenge-response itself; the asserted account is verified against the
// directory afterwards.
package ntlm

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	apperrors "github.com/adgate-io/adgate/internal/errors"
)

// Message type values from the NTLMSSP header.
const (
	TypeNegotiate    uint32 = 1
	TypeChallenge    uint32 = 2
	TypeAuthenticate uint32 = 3
)

const signature = "NTLMSSP\x00"

// Identity is the account a Type 3 message asserts.
type Identity struct {
	Domain      string
	Username    string
	Workstation string
}

// IsMessage reports whether data starts with the NTLMSSP signature.
func IsMessage(data []byte) bool {
	return len(data) >= len(signature) && string(data[:len(signature)]) == signature
}

// MessageType returns the NTLMSSP message type, or 0 when data is not
// an NTLM message.
func MessageType(data []byte) uint32 {
	if !IsMessage(data) || len(data) < 12 {
		return 0
	}
	return binary.LittleEndian.Uint32(data[8:12])
}

// ParseAuthenticate extracts the asserted identity from an NTLM message.
// Type 3 messages are decoded from their security buffer fields. Anything
// else falls back to a permissive scan for a printable account name, so
// that slightly malformed client messages still yield an identity when
// one is plainly present.
func ParseAuthenticate(data []byte) (Identity, error) {
	if !IsMessage(data) {
		return Identity{}, apperrors.ParseFailure("not an NTLM message")
	}

	if MessageType(data) == TypeAuthenticate {
		id, err := parseType3(data)
		if err == nil {
			return id, nil
		}
	}

	if username := scanIdentifier(data); username != "" {
		return Identity{Username: username}, nil
	}

	return Identity{}, apperrors.ParseFailure("no account name in NTLM message")
}

// parseType3 decodes the domain, user, and workstation security buffers
// of a Type 3 (Authenticate) message.
func parseType3(data []byte) (Identity, error) {
	if len(data) < 64 {
		return Identity{}, apperrors.ParseFailure("NTLM authenticate message too short")
	}

	id := Identity{
		Domain:      readBuffer(data, 28),
		Username:    readBuffer(data, 36),
		Workstation: readBuffer(data, 44),
	}

	if id.Username == "" {
		return Identity{}, apperrors.ParseFailure("NTLM authenticate message has no user name")
	}
	return id, nil
}

// readBuffer reads an NTLM security buffer descriptor at the given offset
// (2-byte length, 2-byte max length, 4-byte payload offset) and decodes
// the referenced UTF-16LE payload. Out-of-range buffers yield "".
func readBuffer(data []byte, at int) string {
	if at+8 > len(data) {
		return ""
	}
	length := binary.LittleEndian.Uint16(data[at : at+2])
	offset := binary.LittleEndian.Uint32(data[at+4 : at+8])
	if length == 0 || int(offset)+int(length) > len(data) {
		return ""
	}
	return decodeUTF16LE(data[offset : offset+uint32(length)])
}

// decodeUTF16LE decodes a UTF-16 LE encoded byte slice to a string.
func decodeUTF16LE(b []byte) string {
	if len(b)%2 != 0 {
		return ""
	}
	u16s := make([]uint16, len(b)/2)
	for i := range u16s {
		u16s[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(u16s))
}

// scanIdentifier looks for the longest printable ASCII run that could be
// an account name. Runs shorter than 3 characters or containing anything
// besides letters, digits, and common account punctuation are skipped.
func scanIdentifier(data []byte) string {
	var best, current strings.Builder
	flush := func() {
		if current.Len() >= 3 && current.Len() > best.Len() {
			best.Reset()
			best.WriteString(current.String())
		}
		current.Reset()
	}
	for _, b := range data {
		if isIdentifierByte(b) {
			current.WriteByte(b)
			continue
		}
		flush()
	}
	flush()

	// The signature itself is a printable run; never report it.
	if s := best.String(); s != "" && !strings.HasPrefix(s, "NTLMSSP") {
		return s
	}
	return ""
}

func isIdentifierByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '.' || b == '-' || b == '_' || b == '\\' || b == '@':
		return true
	}
	return false
}
