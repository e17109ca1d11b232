package wasm_test

import (
	"testing"

	"github.com/rv2wasm/rv2wasm/wasm"
)

func TestParseMinimalModule(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	m, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if m == nil {
		t.Fatal("expected non-nil module")
	}
}

func TestParseInvalidMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for invalid magic")
	}
}

func TestParseInvalidVersion(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for invalid version")
	}
}

func TestParseTruncatedHeader(t *testing.T) {
	data := []byte{0x00, 0x61, 0x73}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated header")
	}
}

func TestParseSectionOutOfOrder(t *testing.T) {
	// Build a module with sections out of order manually
	// Memory section (5) followed by Function section (3) - invalid order
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, no max, 1 page
		0x03, 0x02, 0x01, 0x00, // function section: 1 function with type 0
	}

	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for out-of-order sections")
	}
}

func TestParseTruncatedSectionSize(t *testing.T) {
	// Valid header, section ID but no size
	data := []byte{
		0x00, 0x61, 0x73, 0x6D,
		0x01, 0x00, 0x00, 0x00,
		0x01, // type section ID, no size
	}

	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated section size")
	}
}

func TestParseTruncatedSectionData(t *testing.T) {
	// Section claims 100 bytes but only has 2
	data := []byte{
		0x00, 0x61, 0x73, 0x6D,
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x64, // type section, size=100
		0x01, 0x60, // only 2 bytes
	}

	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated section data")
	}
}

func TestParseInvalidTypeForm(t *testing.T) {
	// Type section with invalid type form (not 0x60)
	data := []byte{
		0x00, 0x61, 0x73, 0x6D,
		0x01, 0x00, 0x00, 0x00,
		0x01, 0x04, // type section, size=4
		0x01,       // 1 type
		0x99,       // invalid form (not 0x60)
		0x00, 0x00, // params/results
	}

	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for invalid type form")
	}
}

func TestParseEmptyModule(t *testing.T) {
	// Just magic and version, no sections
	data := []byte{
		0x00, 0x61, 0x73, 0x6D,
		0x01, 0x00, 0x00, 0x00,
	}

	m, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if m == nil {
		t.Fatal("expected non-nil module")
	}
}

func TestParseInvalidCompType(t *testing.T) {
	// Type section with invalid composite type byte (not 0x60, 0x5F, 0x5E)
	// Using rec type (0x4E) with subtype prefix (0x50), 0 supertypes, then invalid type
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x06, // type section, size=6
		0x01, // 1 type
		0x4E, // rec type marker
		0x01, // 1 subtype
		0x50, // 0x50=subtype prefix (non-final)
		0x00, // 0 supertypes
		0x99, // invalid composite type
	}

	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for invalid composite type")
	}
}

func TestParseInvalidTablePrefix(t *testing.T) {
	// 0x40 followed by non-zero byte
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section, size=4
		0x01,       // 1 table
		0x40, 0x01, // 0x40 followed by 0x01 (invalid, should be 0x00)
		0x70, // funcref (but we won't get here)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for invalid table prefix")
	}
}

func TestParseTagTruncated(t *testing.T) {
	// Tag section with truncated data
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x01, 0x7F, // 1 func type (i32) -> ()
		0x0D, 0x02, // tag section, size=2
		0x01, // 1 tag
		0x00, // attribute (but missing type idx)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated tag")
	}
}

func TestParseLimitsMinExceedsMax(t *testing.T) {
	// Memory with min > max
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x04, // memory section, size=4
		0x01, // 1 memory
		0x01, // has max flag
		0x0A, // min=10
		0x05, // max=5 (less than min)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for min > max")
	}
}

func TestParseUnknownSectionID(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0xFF, 0x01, // unknown section ID 0xFF, size 1
		0x00, // dummy data
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for unknown section ID")
	}
}

func TestParseTruncatedCodeSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type () -> ()
		0x03, 0x02, // function section
		0x01, 0x00, // 1 function, type 0
		0x0A, 0x05, // code section, size 5
		0x01, // 1 function
		0x03, // body size 3
		0x00, // 0 locals
		0x41, // i32.const (missing immediate)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated code section")
	}
}

func TestParseTruncatedTypeSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x02, // type section, size 2
		0x02, // claims 2 types but only provides partial data
		0x60, // func type marker (incomplete)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated type section")
	}
}

func TestParseTruncatedImportSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x02, 0x03, // import section, size 3
		0x01,       // 1 import
		0x01, 0x61, // module name "a" (but missing rest)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated import section")
	}
}

func TestParseInvalidImportKind(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type () -> ()
		0x02, 0x07, // import section, size 7
		0x01,       // 1 import
		0x01, 0x61, // module "a"
		0x01, 0x62, // name "b"
		0x05, // invalid import kind (should be 0-4)
		0x00, // dummy
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for invalid import kind")
	}
}

func TestParseTruncatedGlobalSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x06, 0x03, // global section, size 3
		0x01, // 1 global
		0x7F, // i32
		0x00, // immutable (but missing init expr)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated global section")
	}
}

func TestParseTruncatedElementSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x10, // 1 table: funcref, min=16
		0x09, 0x02, // element section, size 2
		0x01, // 1 element
		0x00, // flags (active, table 0) - missing offset expr
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated element section")
	}
}

func TestParseTruncatedDataSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory, min=1
		0x0B, 0x02, // data section, size 2
		0x01, // 1 data segment
		0x00, // flags (active, memory 0) - missing offset expr
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated data section")
	}
}

func TestParseTruncatedFuncTypeParams(t *testing.T) {
	// Type section with func type missing param types
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x03, // type section, size 3
		0x01, // 1 type
		0x60, // func type
		0x02, // 2 params (but no param data)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated func type params")
	}
}

func TestParseTruncatedFuncTypeResults(t *testing.T) {
	// Type section with func type missing result types
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section, size 4
		0x01, // 1 type
		0x60, // func type
		0x00, // 0 params
		0x02, // 2 results (but no result data)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated func type results")
	}
}

func TestParseTruncatedRefParam(t *testing.T) {
	// Func type with ref param missing heap type
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section, size 4
		0x01, // 1 type
		0x60, // func type
		0x01, // 1 param
		0x63, // ref null (but missing heap type)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated ref param")
	}
}

func TestParseTruncatedSubType(t *testing.T) {
	// SubType missing parent indices
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x03, // type section, size 3
		0x01, // 1 type
		0x50, // sub (non-final) marker
		0x01, // 1 parent (but missing parent index)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated sub type")
	}
}

func TestParseTruncatedFieldType(t *testing.T) {
	// Struct with field missing mutability
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section, size 4
		0x01, // 1 type
		0x5F, // struct marker
		0x01, // 1 field
		0x7F, // i32 type (but missing mutability byte)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated field type")
	}
}

func TestParseTruncatedArrayType(t *testing.T) {
	// Array with element type missing mutability
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x03, // type section, size 3
		0x01, // 1 type
		0x5E, // array marker
		0x7F, // i32 element type (but missing mutability)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated array type")
	}
}

func TestParseTruncatedFunctionSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type () -> ()
		0x03, 0x01, // function section, size 1
		0x03, // claims 3 functions (but only has room for partial)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated function section")
	}
}

func TestParseTruncatedExportSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x03, 0x02, // function section
		0x01, 0x00, // 1 function, type 0
		0x07, 0x04, // export section, size 4
		0x01,       // 1 export
		0x01, 0x66, // name "f"
		0x00, // kind: function (but missing index)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated export section")
	}
}

func TestParseTruncatedCustomSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x00, 0x03, // custom section, size 3
		0x05,       // name length 5 (but only 2 more bytes available)
		0x61, 0x62, // partial name "ab"
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated custom section")
	}
}

func TestParseTruncatedTableSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x02, // table section, size 2
		0x01, // 1 table
		0x70, // funcref (but missing limits)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated table section")
	}
}

func TestParseTruncatedStorageType(t *testing.T) {
	// Storage type with ref type missing heap type
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section, size 4
		0x01, // 1 type
		0x5F, // struct marker
		0x01, // 1 field
		0x64, // ref (non-null) - missing heap type
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated storage type")
	}
}

func TestParseTruncatedStartSection(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x08, 0x00, // start section, size 0 (missing function index)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated start section")
	}
}

func TestParseInvalidExportKind(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x07, 0x05, // export section, size 5
		0x01,       // 1 export
		0x01, 0x66, // name "f"
		0x05, // invalid export kind (should be 0-4)
		0x00, // index
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for invalid export kind")
	}
}

func TestParseTruncatedRecType(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x03, // type section, size 3
		0x01, // 1 type
		0x4E, // rec type marker
		0x02, // 2 subtypes (but missing data)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error for truncated rec type")
	}
}

// TDD: Target readFuncType line 363 - params OK, results fail
// To hit readFuncType (not skipFuncType), we need hasGCTypes=true
// so the first pass breaks early and readFuncType runs in second pass
func TestParseFuncTypeResultsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x0B, // type section, size 11
		0x02, // 2 types
		// Type 0: rec type (triggers hasGCTypes=true, bypasses skipFuncType)
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x5F, // struct
		0x01, // 1 field
		0x7F, // i32
		0x00, // immutable
		// Type 1: func type with truncated results (will fail in readFuncType)
		0x60,       // func type
		0x01, 0x7F, // 1 param: i32 (succeeds)
		0x02, // 2 results (but no result types - fails)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: readFuncType results truncated")
	}
}

// TDD: Target readFuncType line 359 - params fail
func TestParseFuncTypeParamsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x09, // type section, size 9
		0x02, // 2 types
		// Type 0: rec type (triggers hasGCTypes=true)
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x5F, // struct
		0x01, // 1 field
		0x7F, // i32
		0x00, // immutable
		// Type 1: func type with truncated params
		0x60, // func type
		0x02, // 2 params (but no param types - fails in readFuncType)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: readFuncType params truncated")
	}
}

// TDD: Target readTagType line 1116 - attribute read fails
func TestParseTagAttributeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x0D, 0x01, // tag section, size 1
		0x01, // 1 tag (but no attribute byte)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: tag attribute truncated")
	}
}

// TDD: Target readTagType line 1120 - typeIdx read fails
func TestParseTagTypeIdxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x0D, 0x02, // tag section, size 2
		0x01, // 1 tag
		0x00, // attribute (but no typeIdx)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: tag typeIdx truncated")
	}
}

// TDD: Target readStorageType line 518 - ref heap type fails
func TestParseStructRefFieldHeapTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section, size 4
		0x01, // 1 type
		0x5F, // struct marker
		0x01, // 1 field
		0x63, // ref null type (needs heap type LEB128 but truncated)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: ref field heap type truncated")
	}
}

// TDD: Target parseImportSection - import func type idx truncated
func TestParseImportFuncTypeIdxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x02, 0x06, // import section, size 6
		0x01,       // 1 import
		0x01, 0x61, // module "a"
		0x01, 0x62, // name "b"
		0x00, // kind: function (but no type idx)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: import func type idx truncated")
	}
}

// TDD: Target parseImportSection - import table limits truncated
func TestParseImportTableLimitsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x02, 0x07, // import section, size 7
		0x01,       // 1 import
		0x01, 0x61, // module "a"
		0x01, 0x62, // name "b"
		0x01, // kind: table
		0x70, // funcref (but no limits)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: import table limits truncated")
	}
}

// TDD: Target parseImportSection - import memory limits truncated
func TestParseImportMemoryLimitsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x02, 0x06, // import section, size 6
		0x01,       // 1 import
		0x01, 0x61, // module "a"
		0x01, 0x62, // name "b"
		0x02, // kind: memory (but no limits)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: import memory limits truncated")
	}
}

// TDD: Target parseImportSection - import global type truncated
func TestParseImportGlobalTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x02, 0x06, // import section, size 6
		0x01,       // 1 import
		0x01, 0x61, // module "a"
		0x01, 0x62, // name "b"
		0x03, // kind: global (but no type)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: import global type truncated")
	}
}

// TDD: Target parseImportSection - import tag truncated
func TestParseImportTagTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x02, 0x06, // import section, size 6
		0x01,       // 1 import
		0x01, 0x61, // module "a"
		0x01, 0x62, // name "b"
		0x04, // kind: tag (but no tag type)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: import tag truncated")
	}
}

// TDD: Target parseDataSection - data segment mode/memory truncated
func TestParseDataSegmentModeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory
		0x0B, 0x02, // data section, size 2
		0x01, // 1 segment
		0x02, // mode 2 (explicit memory index) but truncated
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: data segment mode truncated")
	}
}

// TDD: Target parseCodeSection - local count truncated
func TestParseCodeLocalCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x03, 0x02, // function section
		0x01, 0x00, // 1 function
		0x0A, 0x03, // code section, size 3
		0x01, // 1 body
		0x01, // body size 1
		0x01, // 1 local entry (but no local type info)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: code local count truncated")
	}
}

// TDD: Target parseElementSection - elem offset expr truncated
func TestParseElementOffsetTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x03, // element section, size 3
		0x01, // 1 element
		0x00, // flags: active table 0
		0x41, // i32.const (but no immediate or end)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element offset truncated")
	}
}

// TDD: Target readFieldType line 495 - storage type truncated (via struct)
func TestParseStructFieldStorageTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x03, // type section, size 3
		0x01, // 1 type
		0x5F, // struct marker
		0x01, // 1 field (but no field data)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: struct field storage type truncated")
	}
}

// TDD: Target readCompType line 438 - kind byte truncated
func TestParseCompTypeKindTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x01, // type section, size 1
		0x01, // 1 type (but no type data)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: comp type kind truncated")
	}
}

// TDD: Target readCompType line 452 - struct type fails
func TestParseCompTypeStructFails(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x02, // type section, size 2
		0x01, // 1 type
		0x5F, // struct marker
		// missing field count
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: struct type field count truncated")
	}
}

// TDD: Target readCompType line 459 - array type fails
func TestParseCompTypeArrayFails(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x02, // type section, size 2
		0x01, // 1 type
		0x5E, // array marker
		// missing element type
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: array element type truncated")
	}
}

// TDD: Target readStructType line 471 - field count truncated
func TestParseStructTypeFieldCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x02, // type section, size 2
		0x01, // 1 type
		0x5F, // struct marker (no field count follows)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: struct field count truncated")
	}
}

// TDD: Target readStructType line 477 - reading 2nd field fails
func TestParseStructTypeSecondFieldFails(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x06, // type section, size 6
		0x01,       // 1 type
		0x5F,       // struct marker
		0x02,       // 2 fields
		0x7F, 0x00, // first field: i32, immutable (OK)
		0x7E, // second field: i64 (but missing mutability)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: second struct field truncated")
	}
}

// TDD: Target parseDataSection line 848 - flags truncated
func TestParseDataSectionFlagsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory, 0-1 pages
		0x0B, 0x01, // data section, size 1
		0x01, // 1 segment (but no flags)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: data segment flags truncated")
	}
}

// TDD: Target parseDataSection line 852 - invalid flags
func TestParseDataSectionInvalidFlags(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory, 0-1 pages
		0x0B, 0x02, // data section, size 2
		0x01, // 1 segment
		0x05, // invalid flags (>2)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: invalid data segment flags")
	}
}

// TDD: Target parseDataSection line 862 - memIdx truncated (flags=2)
func TestParseDataSectionMemIdxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory
		0x0B, 0x02, // data section, size 2
		0x01, // 1 segment
		0x02, // flags=2 (active with memIdx, but memIdx missing)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: memIdx truncated")
	}
}

// TDD: Target parseDataSection line 876 - initLen truncated
func TestParseDataSectionInitLenTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory
		0x0B, 0x05, // data section, size 5
		0x01,             // 1 segment
		0x00,             // flags=0 (active, memory 0)
		0x41, 0x00, 0x0B, // offset: i32.const 0, end
		// missing init length
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: data init length truncated")
	}
}

// TDD: Target parseDataSection line 880 - init bytes truncated
func TestParseDataSectionInitBytesTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory
		0x0B, 0x07, // data section, size 7
		0x01,             // 1 segment
		0x00,             // flags=0
		0x41, 0x00, 0x0B, // offset: i32.const 0, end
		0x05, // init length 5 (but only 1 byte follows)
		0xAA,
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: data init bytes truncated")
	}
}

// TDD: Target parseFunctionSection line 596 - func count truncated
func TestParseFunctionSectionCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x03, 0x00, // function section, size 0 (no count)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: function section count truncated")
	}
}

// TDD: Target parseCodeSection line 785 - body count truncated
func TestParseCodeSectionCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x03, 0x02, // function section
		0x01, 0x00, // 1 function
		0x0A, 0x00, // code section, size 0 (no body count)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: code section count truncated")
	}
}

// TDD: Target readTableType line 1017 - ref type truncated
func TestParseTableTypeRefTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x01, // table section, size 1
		0x01, // 1 table (but no ref type)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: table ref type truncated")
	}
}

// TDD: Target readTableType line 1031 - limits truncated
func TestParseTableTypeLimitsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x02, // table section, size 2
		0x01, // 1 table
		0x70, // funcref (but no limits)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: table limits truncated")
	}
}

// TDD: Target readTableType line 1050 - ref heap type truncated
func TestParseRefTypeHeapTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x02, // table section, size 2
		0x01, // 1 table
		0x64, // ref (non-nullable, needs heap type)
		// missing heap type
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: ref heap type truncated")
	}
}

// TDD: Target parseElementSection line 699 - count truncated
func TestParseElementSectionCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x00, // element section, size 0 (no count)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element count truncated")
	}
}

// TDD: Target parseElementSection line 703 - flags truncated
func TestParseElementSectionFlagsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x01, // element section, size 1
		0x01, // 1 element (but no flags)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element flags truncated")
	}
}

// TDD: Target readCompType via SubTypeByte (0x50) - comptype truncated
func TestParseSubTypeCompTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x05, // type section, size 5
		0x01, // 1 type
		0x4E, // rec type marker (triggers GC path)
		0x01, // 1 subtype in rec
		0x50, // sub (non-final) marker
		0x00, // 0 parents (but no comp type follows)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: subtype comp type truncated")
	}
}

// TDD: Target readCompType line 445 - func type fails via subtype
func TestParseSubTypeFuncTypeFails(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x07, // type section, size 7
		0x01, // 1 type
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x50, // sub marker
		0x00, // 0 parents
		0x60, // func type marker
		0x02, // 2 params (but no param types)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: subtype func type params truncated")
	}
}

// TDD: Target readCompType line 452 - struct type fails via subtype
func TestParseSubTypeStructTypeFails(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x06, // type section, size 6
		0x01, // 1 type
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x50, // sub marker
		0x00, // 0 parents
		0x5F, // struct marker (but no field count)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: subtype struct type truncated")
	}
}

// TDD: Target readCompType line 459 - array type fails via subtype
func TestParseSubTypeArrayTypeFails(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x06, // type section, size 6
		0x01, // 1 type
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x50, // sub marker
		0x00, // 0 parents
		0x5E, // array marker (but no element type)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: subtype array type truncated")
	}
}

// TDD: Target readCompType line 464 - invalid comp type via subtype
func TestParseSubTypeInvalidCompType(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x06, // type section, size 6
		0x01, // 1 type
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x50, // sub marker
		0x00, // 0 parents
		0x99, // invalid comp type marker
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: invalid comp type")
	}
}

// TDD: Target readSubTypeWithPrefix line 389 - parent count truncated
func TestParseSubTypeParentCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section, size 4
		0x01, // 1 type
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x50, // sub marker (but no parent count)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: subtype parent count truncated")
	}
}

// TDD: Target readSubTypeWithPrefix line 395 - parent index truncated
func TestParseSubTypeParentIndexTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x05, // type section, size 5
		0x01, // 1 type
		0x4E, // rec type marker
		0x01, // 1 subtype in rec
		0x50, // sub marker
		0x02, // 2 parents (but no parent indices)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: subtype parent index truncated")
	}
}

// TDD: Target readArrayType error path (line 487) via direct array type
func TestParseArrayTypeElementTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x02, // type section, size 2
		0x01, // 1 type
		0x5E, // array marker (no element type follows)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: array element type truncated")
	}
}

// TDD: Target readStorageType error path (line 519) - ref type heap truncated
func TestParseStorageTypeRefHeapTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section, size 4
		0x01, // 1 type
		0x5F, // struct marker
		0x01, // 1 field
		0x64, // ref (non-nullable, needs heap type, but none)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: storage type ref heap truncated")
	}
}

// TDD: Target parseFunctionSection line 601 - func type idx truncated
func TestParseFunctionSectionTypeIdxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x03, 0x01, // function section, size 1
		0x02, // 2 functions (but only enough bytes for first, if any)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: function type idx truncated")
	}
}

// TDD: Target parseGlobalSection line 640 - global type truncated
func TestParseGlobalSectionTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x06, 0x01, // global section, size 1
		0x01, // 1 global (but no type data)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: global type truncated")
	}
}

// TDD: Target parseGlobalSection line 647 - global init expr truncated
func TestParseGlobalSectionInitExprTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x06, 0x03, // global section, size 3
		0x01, // 1 global
		0x7F, // i32 type
		0x00, // immutable (but no init expr)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: global init expr truncated")
	}
}

// TDD: Target parseExportSection line 669 - export name truncated
func TestParseExportSectionNameTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x07, 0x02, // export section, size 2
		0x01, // 1 export
		0x05, // name length 5 (but no name bytes)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: export name truncated")
	}
}

// TDD: Target parseExportSection line 673 - export kind truncated
func TestParseExportSectionKindTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x07, 0x03, // export section, size 3
		0x01,       // 1 export
		0x01, 0x66, // name "f" (but no kind)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: export kind truncated")
	}
}

// TDD: Target parseExportSection line 681 - export idx truncated
func TestParseExportSectionIdxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x07, 0x04, // export section, size 4
		0x01,       // 1 export
		0x01, 0x66, // name "f"
		0x00, // kind: func (but no idx)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: export idx truncated")
	}
}

// TDD: Target parseCodeSection line 789 - body size truncated
func TestParseCodeSectionBodySizeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x03, 0x02, // function section
		0x01, 0x00, // 1 function
		0x0A, 0x01, // code section, size 1
		0x01, // 1 body (but no body size)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: code body size truncated")
	}
}

// TDD: Target parseCodeSection line 801 - local count truncated
func TestParseCodeSectionLocalCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x01, 0x04, // type section
		0x01, 0x60, 0x00, 0x00, // 1 func type
		0x03, 0x02, // function section
		0x01, 0x00, // 1 function
		0x0A, 0x02, // code section, size 2
		0x01, // 1 body
		0x00, // body size 0
		// missing local count
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: code local count truncated")
	}
}

// TDD: Target parseDataCountSection line 891 - count truncated
func TestParseDataCountSectionTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x0C, 0x00, // data count section, size 0 (no count)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: data count truncated")
	}
}

// TDD: Target readTableType line 1028 - limits flag truncated
func TestParseTableTypeLimitsFlagsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x02, // table section, size 2
		0x01, // 1 table
		0x70, // funcref (but no limits flags)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: table limits flags truncated")
	}
}

// TDD: Target readTableType line 1034 - limits min truncated
func TestParseTableTypeLimitsMinTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x03, // table section, size 3
		0x01, // 1 table
		0x70, // funcref
		0x00, // limits flags: no max (but missing min)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: table limits min truncated")
	}
}

// TDD: Target readTableType line 1042 - limits max truncated
func TestParseTableTypeLimitsMaxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section, size 4
		0x01, // 1 table
		0x70, // funcref
		0x01, // limits flags: has max
		0x00, // min=0 (but missing max)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: table limits max truncated")
	}
}

// TDD: Target readInitExpr line 1131 - block type truncated (read as the next opcode)
func TestParseInitExprBlockTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x06, 0x04, // global section, size 4
		0x01, // 1 global
		0x7F, // i32 type
		0x00, // immutable
		0x02, // block instruction (but no block type)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: block type truncated")
	}
}

// TDD: Target copyBytes line 1227 - copy bytes truncated
func TestParseCopyBytesTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x06, 0x08, // global section, size 8
		0x01, // 1 global
		0x7F, // i32 type
		0x00, // immutable
		0xFD, // SIMD prefix
		0x0C, // v128.const opcode
		// needs 16 bytes for v128, but we'll provide fewer
		0x01, 0x02, 0x03,
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: v128 bytes truncated")
	}
}

// TDD: Target parseElementSection line 708 - invalid element flags
func TestParseElementSectionInvalidFlags(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x02, // element section, size 2
		0x01, // 1 element
		0x08, // invalid flags (>7)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: invalid element flags")
	}
}

// TDD: Target parseElementSection line 722 - table idx truncated (flags=2)
func TestParseElementSectionTableIdxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x02, // element section, size 2
		0x01, // 1 element
		0x02, // flags=2 (active, explicit table idx)
		// missing table idx
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element table idx truncated")
	}
}

// TDD: Target parseElementSection line 748 - elemkind truncated (flags=1)
func TestParseElementSectionElemKindTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x02, // element section, size 2
		0x01, // 1 element
		0x01, // flags=1 (passive, with elemkind - but missing it)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element elemkind truncated")
	}
}

// TDD: Target parseElementSection line 756 - vec count truncated
func TestParseElementSectionVecCountTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x05, // element section
		0x01,             // 1 element
		0x00,             // flags=0 (active, table 0, no elemkind)
		0x41, 0x00, 0x0B, // offset: i32.const 0, end
		// missing vec count
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element vec count truncated")
	}
}

// TDD: Target parseElementSection line 772 - func idx truncated
func TestParseElementSectionFuncIdxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x06, // element section
		0x01,             // 1 element
		0x00,             // flags=0 (active)
		0x41, 0x00, 0x0B, // offset: i32.const 0, end
		0x02, // vec count = 2 (but no func indices)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element func idx truncated")
	}
}

// TDD: Target parseElementSection line 740 - reftype truncated (flags=5)
func TestParseElementSectionRefTypeTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x02, // element section
		0x01, // 1 element
		0x05, // flags=5 (passive, with exprs and reftype - but missing)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element reftype truncated")
	}
}

// TDD: Target parseElementSection line 764 - expr truncated (flags=4)
func TestParseElementSectionExprTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x04, 0x04, // table section
		0x01, 0x70, 0x00, 0x01, // 1 table
		0x09, 0x06, // element section
		0x01,             // 1 element
		0x04,             // flags=4 (active, no explicit table, with exprs)
		0x41, 0x00, 0x0B, // offset: i32.const 0, end
		0x01, // vec count = 1
		// missing expr
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: element expr truncated")
	}
}

// TDD: Target parseDataSection line 870 - data offset truncated (flags=0)
func TestParseDataSectionOffsetTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, 0x00, 0x01, // 1 memory
		0x0B, 0x03, // data section
		0x01, // 1 segment
		0x00, // flags=0 (active)
		0x41, // i32.const (but no immediate or end)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: data offset truncated")
	}
}

// TDD: Target readGlobalType line 1093 - mutability truncated
func TestParseGlobalTypeMutabilityTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x06, 0x02, // global section
		0x01, // 1 global
		0x7F, // i32 (but no mutability byte)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: global mutability truncated")
	}
}

// TDD: Target readLimits line 969 - limits flags truncated
func TestParseLimitsFlagsTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x01, // memory section, size 1
		0x01, // 1 memory (but no limits)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: limits flags truncated")
	}
}

// TDD: Target readLimits line 993 - limits min truncated
func TestParseLimitsMinTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x02, // memory section
		0x01, // 1 memory
		0x00, // limits flags=0 (but no min)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: limits min truncated")
	}
}

// TDD: Target readLimits line 999 - limits max truncated
func TestParseLimitsMaxTruncated(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, 0x03, // memory section
		0x01, // 1 memory
		0x01, // limits flags=1 (has max)
		0x00, // min=0 (but no max)
	}
	_, err := wasm.ParseModule(data)
	if err == nil {
		t.Error("expected error: limits max truncated")
	}
}
