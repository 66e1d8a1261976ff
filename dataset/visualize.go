package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// ASCIIArt renders an image as rows of '@' (bytes >= 230) and '.' under a
// line holding the image index.
func ASCIIArt(index int, pixels []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", index)
	for i, p := range pixels {
		if p >= 230 {
			b.WriteByte('@')
		} else {
			b.WriteByte('.')
		}
		if (i+1)%ImageWidth == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// PGM renders an image as a plain (P2) portable graymap, one value per line.
func PGM(pixels []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "P2\n%d %d\n255\n", ImageWidth, ImageHeight)
	for _, p := range pixels {
		b.WriteString(strconv.Itoa(int(p)))
		b.WriteByte('\n')
	}
	return b.String()
}
