package onchain

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// anchorDiscriminator computes the 8-byte Anchor instruction discriminator:
// sha256("global:<method>")[:8].
func anchorDiscriminator(method string) []byte {
	sum := sha256.Sum256([]byte("global:" + method))
	return sum[:8]
}

// encodeArgs serializes an Anchor instruction payload: discriminator followed
// by the u64 args in Borsh layout (little endian).
func encodeArgs(method string, args ...uint64) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(anchorDiscriminator(method))

	enc := bin.NewBorshEncoder(buf)
	for _, a := range args {
		if err := enc.WriteUint64(a, binary.LittleEndian); err != nil {
			return nil, fmt.Errorf("encode %s args: %w", method, err)
		}
	}
	return buf.Bytes(), nil
}
