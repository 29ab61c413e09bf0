package analysis

import "testing"

func TestComputeStatsCountsAndFusion(t *testing.T) {
	// PUSH1 5 ADD STOP — PUSH1 is a fusion candidate for ADD.
	code := []byte{0x60, 0x05, 0x01, 0x00}
	a, err := AnalyzeRuntime(code, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := ComputeStats(a)
	if len(s.FusionCandidates) != 1 || s.FusionCandidates[0] != 0 {
		t.Fatalf("expected one fusion candidate at pc 0, got %v", s.FusionCandidates)
	}
	if len(s.PushRecords) != 1 || s.PushRecords[0].Value.Uint64() != 5 {
		t.Fatalf("unexpected push records: %+v", s.PushRecords)
	}
	if s.OpcodeHistogram[0x01] != 1 {
		t.Fatalf("expected one ADD in the histogram, got %d", s.OpcodeHistogram[0x01])
	}
}

func TestComputeStatsExcludesBitwiseOpsFromFusionCandidates(t *testing.T) {
	// PUSH1 5 AND STOP — the bit-plane's wide fusion set includes AND,
	// but Stats reports against the narrower set that excludes it.
	code := []byte{0x60, 0x05, 0x16, 0x00}
	a, err := AnalyzeRuntime(code, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsFusionCandidate(0) {
		t.Fatal("expected the bit-plane to still mark PUSH1 before AND as a fusion candidate")
	}
	s := ComputeStats(a)
	if len(s.FusionCandidates) != 0 {
		t.Fatalf("expected AND to be excluded from Stats.FusionCandidates, got %v", s.FusionCandidates)
	}
}

func TestComputeStatsDetectsBackwardsJump(t *testing.T) {
	// JUMPDEST PUSH1 0 JUMP
	code := []byte{0x5b, 0x60, 0x00, 0x56}
	a, err := AnalyzeRuntime(code, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := ComputeStats(a)
	if len(s.Jumps) != 1 || !s.Jumps[0].HasStatic {
		t.Fatalf("expected one statically-targeted jump, got %+v", s.Jumps)
	}
	if s.BackwardsJumpsCount != 1 {
		t.Fatalf("expected one backwards jump, got %d", s.BackwardsJumpsCount)
	}
	if len(s.Jumpdests) != 1 || s.Jumpdests[0] != 0 {
		t.Fatalf("expected jumpdest at pc 0, got %v", s.Jumpdests)
	}
}

func TestComputeStatsForwardJumpIsNotBackwards(t *testing.T) {
	// PUSH1 3 JUMP JUMPDEST STOP
	code := []byte{0x60, 0x03, 0x56, 0x5b, 0x00}
	a, err := AnalyzeRuntime(code, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := ComputeStats(a)
	if s.BackwardsJumpsCount != 0 {
		t.Fatalf("expected no backwards jumps, got %d", s.BackwardsJumpsCount)
	}
}

func TestComputeStatsFlagsLikelyConstructor(t *testing.T) {
	// CODECOPY STOP
	code := []byte{0x39, 0x00}
	a, err := AnalyzeRuntime(code, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := ComputeStats(a)
	if !s.LooksLikeConstructor {
		t.Fatal("expected CODECOPY to flag the code as constructor-like")
	}
}
