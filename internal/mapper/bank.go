package mapper

// Bank granularities shared across mapper variants. PRG banks are always
// counted in 16KiB units at the cartridge level (cartridge.Cartridge.PrgROM
// is a flat byte slice); mappers that switch in smaller windows (MMC3's
// 8KiB PRG pages, 1KiB/2KiB CHR pages) compute sub-bank offsets locally.
const (
	prgBankSize = 16 * 1024
	chrBankSize = 8 * 1024
)
