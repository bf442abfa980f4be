package ancmod

import "testing"

func TestPropertyRoundTrip(t *testing.T) {
	entry := PropertyEntry{
		Edition:    [8]byte{'2', '0', '2', '1'},
		Version:    Version{Major: 1, Minor: 2, Patch: 3},
		ModuleName: "hello_world",
	}
	encoded, err := EncodeProperty(entry)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) != propertyRecordSize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), propertyRecordSize)
	}
	got, err := DecodeProperty(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if got != entry {
		t.Fatalf("got %+v, want %+v", got, entry)
	}
}

func TestPropertyNameTooLong(t *testing.T) {
	long := make([]byte, moduleNameBufferSize+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := EncodeProperty(PropertyEntry{ModuleName: string(long)})
	if err == nil {
		t.Fatal("expected an error for an oversized module name")
	}
}

func TestPropertyTruncatedSection(t *testing.T) {
	if _, err := DecodeProperty(make([]byte, propertyRecordSize-1)); err == nil {
		t.Fatal("expected an error decoding a truncated property section")
	}
}
