package snapshot

import (
	"path/filepath"
	"testing"
)

// TestSnapshotRoundTrip is spec section 8 scenario 5: write a
// container, read it back, and confirm the decoded values equal the
// in-memory assembled version element-wise.
func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "round_trip.cdf")

	const nx, ny, nz = 4, 3, 2
	c, err := Create(path, nx, ny, nz)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]float64, nx*ny*nz)
	for i := range data {
		data[i] = float64(i) * 1.5
	}
	begin := [3]int{0, 0, 0}
	end := [3]int{nz, ny, nx}
	for _, name := range Variables {
		if err := c.WriteHyperslab(name, begin, end, data); err != nil {
			t.Fatal(err)
		}
	}
	digest := c.Digest()
	if digest == "" {
		t.Error("expected a non-empty digest after writing")
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	for _, name := range Variables {
		got, err := r.ReadHyperslab(name, begin, end)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if len(got) != len(data) {
			t.Fatalf("%s: got %d elements, want %d", name, len(got), len(data))
		}
		for i := range data {
			if got[i] != data[i] {
				t.Fatalf("%s[%d] = %v, want %v", name, i, got[i], data[i])
			}
		}
	}
}

func TestWriteDescriptor(t *testing.T) {
	dir := t.TempDir()
	descPath := filepath.Join(dir, "snap.cdf.xdmf")
	if err := WriteDescriptor(descPath, filepath.Join(dir, "snap.cdf"), 10, 8, 8, 8, 1, 1, 1, "deadbeef"); err != nil {
		t.Fatal(err)
	}
}

func TestCollectionAdd(t *testing.T) {
	dir := t.TempDir()
	collPath := filepath.Join(dir, "collection.xdmf")
	coll := &Collection{}
	for step := 0; step < 3; step++ {
		if err := coll.Add(collPath, Entry{Step: step, ContainerPath: "snap.cdf", Digest: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	if len(coll.Entries) != 3 {
		t.Errorf("got %d entries, want 3", len(coll.Entries))
	}
}
