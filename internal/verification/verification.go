// Package verification verifies the final framebuffer of a run against an expected digest.
package verification

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/retroenv/retrochip8/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Digest returns the hex encoded SHA-256 hash of the framebuffer.
// Pixels are packed row-major into bytes, MSB first.
func Digest(display chip8.Framebuffer) string {
	packed := make([]byte, len(display)/8)
	for i, on := range display {
		if on {
			packed[i/8] |= 0x80 >> (i % 8)
		}
	}
	sum := sha256.Sum256(packed)
	return hex.EncodeToString(sum[:])
}

// VerifyDisplay verifies that the framebuffer matches the expected digest.
func VerifyDisplay(logger *log.Logger, display chip8.Framebuffer, expected string) error {
	digest := Digest(display)
	if digest == expected {
		logger.Debug("Framebuffer digest matched", log.String("digest", digest))
		return nil
	}

	logger.Error("Framebuffer mismatch",
		log.String("expected", expected),
		log.String("got", digest),
		log.Int("lit_pixels", display.Lit()))
	return fmt.Errorf("framebuffer digest mismatch, expected %s but got %s", expected, digest)
}
