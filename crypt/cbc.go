package crypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

type cbc struct {
	block cipher.Block
	rand  io.Reader
}

func (c *cbc) Mode() Mode { return ModeCBC }

func (c *cbc) Encrypt(plain []byte) ([]byte, error) {
	iv, err := randomBlock(c.rand)
	if err != nil {
		return nil, err
	}
	padded := pad(plain)
	res := make([]byte, aes.BlockSize+len(padded))
	copy(res, iv)
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(res[aes.BlockSize:], padded)
	logf(ModeCBC, "encrypt", plain, res)
	return res, nil
}

func (c *cbc) Decrypt(enc []byte) ([]byte, error) {
	if len(enc) < 2*aes.BlockSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrDecrypt, len(enc))
	}
	if len(enc)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the block size", ErrDecrypt, len(enc))
	}
	iv, body := enc[:aes.BlockSize], enc[aes.BlockSize:]
	res := make([]byte, len(body))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(res, body)
	res, err := unpad(res)
	if err != nil {
		return nil, err
	}
	logf(ModeCBC, "decrypt", enc, res)
	return res, nil
}

// pad applies PKCS#7 padding, always adding at least one byte.
func pad(d []byte) []byte {
	n := aes.BlockSize - len(d)%aes.BlockSize
	return append(bytes.Clone(d), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(d []byte) ([]byte, error) {
	n := int(d[len(d)-1])
	if n == 0 || n > aes.BlockSize || n > len(d) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
	}
	for _, b := range d[len(d)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
		}
	}
	return d[:len(d)-n], nil
}
