package translator

import "testing"

func TestCompileRegionRejectsEmptyInput(t *testing.T) {
	if _, err := CompileRegion(nil, 0x1000); err == nil {
		t.Fatal("expected error for empty code region")
	}
}

func TestCompileRegionLowersSingleEcall(t *testing.T) {
	code := []byte{0x73, 0x00, 0x00, 0x00} // ecall
	out, err := CompileRegion(code, 0x1000)
	if err != nil {
		t.Fatalf("CompileRegion: %v", err)
	}
	if len(out) < 8 || string(out[:4]) != "\x00asm" {
		t.Fatalf("output does not start with the wasm magic: %x", out[:min(8, len(out))])
	}
}
