package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode_KnownValue(t *testing.T) {
	assert.Equal(t, "GAW@r\x03\x00\x01\x06", Encode("user@1234"))
	assert.Equal(t, "user@1234", Decode("GAW@r\x03\x00\x01\x06"))
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode(""))
	assert.Equal(t, "", Decode(""))
	assert.Empty(t, EncodeBytes(nil))
}

func TestCodec_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"user@1234",
		"Abc12345!",
		"newPass@1",
		"with,comma",
		"ünïcödé <>",
		"\x00\x01\xff",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, in, Decode(Encode(in)))
			assert.Equal(t, in, Encode(Decode(in)))
		})
	}
}

func TestCodec_AllBytes(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	encoded := EncodeBytes(all)
	assert.Len(t, encoded, 256)
	assert.Equal(t, all, DecodeBytes(encoded))
	assert.Equal(t, all, EncodeBytes(DecodeBytes(all)))

	for i := range all {
		assert.Equal(t, byte(i)^ObfuscationKey, encoded[i])
	}
}

func TestEncodeBytes_DoesNotMutateInput(t *testing.T) {
	in := []byte("secret")
	_ = EncodeBytes(in)
	assert.Equal(t, []byte("secret"), in)
}

func TestEncode_ProducesLineBreakForSomeBytes(t *testing.T) {
	// The record file has no escaping; these are the characters that collide.
	assert.Equal(t, "\n", Encode("8"))
	assert.Equal(t, "\r", Encode("?"))
	assert.Equal(t, ",", Encode("\x1e"))
}
