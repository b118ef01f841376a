package directory

import "testing"

func TestChunkMetaRoundTrip(t *testing.T) {
	cases := []struct {
		signalID uint16
		level    uint8
	}{
		{0, 0},
		{1, 3},
		{4095, 7},
		{7, 0},
	}
	for _, c := range cases {
		meta := MakeChunkMeta(c.signalID, c.level)
		gotID, gotLevel := SplitChunkMeta(meta)
		if gotID != c.signalID || gotLevel != c.level {
			t.Errorf("MakeChunkMeta(%d, %d) round trip = (%d, %d)", c.signalID, c.level, gotID, gotLevel)
		}
	}
}

func TestChunkMetaDoesNotCollideWithCompressedBit(t *testing.T) {
	meta := MakeChunkMeta(4095, 15)
	if meta&CompressedSummaryBit != 0 {
		t.Error("a full-range chunk_meta value must never set the reserved compressed-summary bit")
	}
}

func TestTrackTagRoleAndTrack(t *testing.T) {
	for _, track := range []TrackType{TrackTypeFSR, TrackTypeVSR, TrackTypeAnnotation, TrackTypeUTC} {
		for _, role := range []TrackRole{RoleDef, RoleHead, RoleIndex, RoleData, RoleSummary} {
			tag := MakeTrackTag(track, role)
			if tag.Track() != track {
				t.Errorf("MakeTrackTag(%v, %v).Track() = %v", track, role, tag.Track())
			}
			if tag.Role() != role {
				t.Errorf("MakeTrackTag(%v, %v).Role() = %v", track, role, tag.Role())
			}
			if !tag.IsTrackTag() {
				t.Errorf("MakeTrackTag(%v, %v).IsTrackTag() = false", track, role)
			}
		}
	}
}

func TestContainerTagsAreNotTrackTags(t *testing.T) {
	for _, tag := range []Tag{TagSourceDef, TagSignalDef, TagUserData} {
		if tag.IsTrackTag() {
			t.Errorf("%v.IsTrackTag() = true, want false", tag)
		}
	}
}

func TestLegalTracks(t *testing.T) {
	fsr := LegalTracks(SignalTypeFSR)
	if len(fsr) != 3 {
		t.Fatalf("FSR legal tracks = %v, want 3 entries", fsr)
	}
	vsr := LegalTracks(SignalTypeVSR)
	if len(vsr) != 2 {
		t.Fatalf("VSR legal tracks = %v, want 2 entries", vsr)
	}
	if LegalTracks(SignalType(99)) != nil {
		t.Error("an unknown signal type should have no legal tracks")
	}
}
