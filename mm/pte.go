package mm

// Formato de una entrada de tabla de páginas (32 bits):
//
//	bit 31      presente
//	bit 30      en swap
//	bit 28      modificada
//	bits 0-12   marco (si presente)
//	bits 0-4    tipo de swap (si en swap)
//	bits 5-25   desplazamiento en swap (si en swap)
const (
	ptePresente   uint32 = 1 << 31
	pteSwapeada   uint32 = 1 << 30
	pteModif      uint32 = 1 << 28
	pteFPNBits           = 13
	pteFPNMask    uint32 = 1<<pteFPNBits - 1
	pteSwpTypBits        = 5
	pteSwpTypMask uint32 = 1<<pteSwpTypBits - 1
	pteSwpOffBits        = 21
	pteSwpOffMask uint32 = (1<<pteSwpOffBits - 1) << pteSwpTypBits

	// MaxMarcos es la cantidad de marcos direccionables desde una PTE
	MaxMarcos = 1 << pteFPNBits
	// MaxMarcosSwap es la cantidad de marcos de swap direccionables
	MaxMarcosSwap = 1 << pteSwpOffBits
	// MaxDispositivosSwap es la cantidad de tipos de swap codificables
	MaxDispositivosSwap = 1 << pteSwpTypBits
)

func PTEPresente(pte uint32) bool { return pte&ptePresente != 0 }

func PTESwapeada(pte uint32) bool { return pte&pteSwapeada != 0 }

func PTEModificada(pte uint32) bool { return pte&pteModif != 0 }

func PTEMarco(pte uint32) int { return int(pte & pteFPNMask) }

func PTESwapTipo(pte uint32) int { return int(pte & pteSwpTypMask) }

func PTESwapDespl(pte uint32) int { return int((pte & pteSwpOffMask) >> pteSwpTypBits) }

func ptePresenteEn(marco int) uint32 {
	return ptePresente | uint32(marco)&pteFPNMask
}

func pteEnSwap(tipo int, despl int) uint32 {
	return pteSwapeada | uint32(tipo)&pteSwpTypMask | (uint32(despl)<<pteSwpTypBits)&pteSwpOffMask
}
