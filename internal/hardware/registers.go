package hardware

// Register is a 32-bit peripheral register offset within its block.
type Register = uint32

// GPIO port register offsets (STM32F4 layout).
const (
	RegMODER   Register = 0x00 // Mode, 2 bits per pin
	RegOTYPER  Register = 0x04 // Output type, 1 bit per pin (1=open-drain)
	RegOSPEEDR Register = 0x08 // Output speed, 2 bits per pin
	RegPUPDR   Register = 0x0C // Pull-up/pull-down, 2 bits per pin
	RegIDR     Register = 0x10 // Input data (read-only)
	RegODR     Register = 0x14 // Output data
	RegBSRR    Register = 0x18 // Bit set/reset (write-only): [15:0]=set, [31:16]=reset
)

// RegRCCAHB1ENR is the RCC register holding the GPIO port clock-enable bits.
const RegRCCAHB1ENR Register = 0x30

// ClockEnableBit returns the AHB1ENR bit mask for a port bank.
func ClockEnableBit(port Port) uint32 {
	return 1 << uint32(port)
}

// PackField2 replaces the 2-bit field for line n in reg with val.
func PackField2(reg uint32, n uint8, val uint8) uint32 {
	shift := uint32(n) * 2
	reg &^= 0x3 << shift
	return reg | uint32(val&0x3)<<shift
}

// Field2 returns the 2-bit field for line n.
func Field2(reg uint32, n uint8) uint8 {
	return uint8(reg>>(uint32(n)*2)) & 0x3
}

// PackBit replaces the bit for line n in reg.
func PackBit(reg uint32, n uint8, set bool) uint32 {
	if set {
		return reg | 1<<uint32(n)
	}
	return reg &^ (1 << uint32(n))
}

// Bit returns the bit for line n.
func Bit(reg uint32, n uint8) bool {
	return reg&(1<<uint32(n)) != 0
}

// ToggleBSRR computes the BSRR value that inverts the lines in mask given
// the current ODR contents: set bits for lines that are low, reset bits for
// lines that are high.
func ToggleBSRR(odr, mask uint32) uint32 {
	mask &= 0xFFFF
	return (odr&mask)<<16 | (^odr & mask)
}

// ApplyBSRR returns the ODR after a BSRR write. Set takes priority over
// reset when both bits are written for the same line.
func ApplyBSRR(odr, bsrr uint32) uint32 {
	odr &^= bsrr >> 16
	return (odr | bsrr&0xFFFF) & 0xFFFF
}
