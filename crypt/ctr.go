package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// ctr is counter mode. Without rand every message starts at counter
// block 1, otherwise at a random block written before the ciphertext.
type ctr struct {
	block cipher.Block
	rand  io.Reader
}

func (c *ctr) Mode() Mode {
	if c.rand != nil {
		return ModeCTRIV
	}
	return ModeCTR
}

func initialCounter() []byte {
	iv := make([]byte, aes.BlockSize)
	iv[aes.BlockSize-1] = 1
	return iv
}

func (c *ctr) Encrypt(plain []byte) ([]byte, error) {
	var prefix []byte
	iv := initialCounter()
	if c.rand != nil {
		b, err := randomBlock(c.rand)
		if err != nil {
			return nil, err
		}
		iv, prefix = b, b
	}
	res := make([]byte, len(prefix)+len(plain))
	copy(res, prefix)
	cipher.NewCTR(c.block, iv).XORKeyStream(res[len(prefix):], plain)
	logf(c.Mode(), "encrypt", plain, res)
	return res, nil
}

func (c *ctr) Decrypt(enc []byte) ([]byte, error) {
	iv := initialCounter()
	if c.rand != nil {
		if len(enc) < aes.BlockSize {
			return nil, fmt.Errorf("%w: %d bytes is shorter than the counter block", ErrDecrypt, len(enc))
		}
		iv, enc = enc[:aes.BlockSize], enc[aes.BlockSize:]
	}
	res := make([]byte, len(enc))
	cipher.NewCTR(c.block, iv).XORKeyStream(res, enc)
	logf(c.Mode(), "decrypt", enc, res)
	return res, nil
}
