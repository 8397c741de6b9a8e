package checks

import "testing"

func TestComputeDegreeSpecExamples(t *testing.T) {
	// total=dc-1, die=20 => success (§8): base classifies as failure, nat20 shifts up one step.
	if got := ComputeDegree(19, 20, 20); got != Success {
		t.Fatalf("total=dc-1 die=20: got %s, want success", got)
	}
	// total=dc+10, die=1 => success (§8): base classifies as critical_success, nat1 shifts down one step.
	if got := ComputeDegree(30, 20, 1); got != Success {
		t.Fatalf("total=dc+10 die=1: got %s, want success", got)
	}
	// total=dc+10, die=20 => critical_success (§8): base is already critical_success and clamps at the top.
	if got := ComputeDegree(30, 20, 20); got != CriticalSuccess {
		t.Fatalf("total=dc+10 die=20: got %s, want critical_success", got)
	}
}

func TestComputeDegreeBaseThresholds(t *testing.T) {
	if got := ComputeDegree(25, 20, 10); got != Success {
		t.Fatalf("total>=dc with neutral die: got %s, want success", got)
	}
	if got := ComputeDegree(9, 20, 10); got != CriticalFailure {
		t.Fatalf("total<=dc-10 with neutral die: got %s, want critical_failure", got)
	}
}

func TestBasicSaveMultiplier(t *testing.T) {
	cases := map[Degree]float64{
		CriticalSuccess: 0.0,
		Success:         0.5,
		Failure:         1.0,
		CriticalFailure: 2.0,
	}
	for degree, want := range cases {
		if got := BasicSaveMultiplier(degree); got != want {
			t.Fatalf("%s multiplier = %v, want %v", degree, got, want)
		}
	}
}
