package ymodem

// crc16 computes the CRC-16/CCITT (XMODEM variant) of buf: polynomial
// 0x1021, initial value 0, bytes shifted MSB-first, no reflection, no
// final XOR. This matches ym_crc16 from fymodem.c bit for bit;
// crc16Update/crc16Finalize below must agree with it (checked by
// crc_test.go).
func crc16(buf []byte) uint16 {
	var crc uint16
	for _, b := range buf {
		x := (crc >> 8) ^ uint16(b)
		x ^= x >> 4
		crc = (crc << 8) ^ (x << 12) ^ (x << 5) ^ x
	}
	return crc
}

// crc16Update folds a single byte into an in-progress CRC-16/CCITT
// accumulator. Starting from acc == 0 and folding a byte at a time is
// equivalent to calling crc16 on the whole span at once.
func crc16Update(acc uint16, b byte) uint16 {
	x := (acc >> 8) ^ uint16(b)
	x ^= x >> 4
	return (acc << 8) ^ (x << 12) ^ (x << 5) ^ x
}

// crc16Finalize is a no-op for this CRC family (no final XOR), kept as a
// named step so call sites read the same way regardless of which CRC
// variant they use.
func crc16Finalize(acc uint16) uint16 {
	return acc
}
