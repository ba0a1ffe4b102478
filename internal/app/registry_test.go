package app

import "testing"

func TestRegistryReadyLifecycle(t *testing.T) {
	r := NewRegistry()
	r.OpenSession("s1")

	r.SetReady("s1", "u1", true)
	r.SetReady("s1", "u2", true)
	if !r.Ready("s1", "u1") || r.ReadyCount("s1") != 2 {
		t.Fatalf("ready count = %d, want 2", r.ReadyCount("s1"))
	}
	if !r.AllReady("s1", []string{"u1", "u2"}) {
		t.Fatal("AllReady() = false, want true")
	}
	if r.AllReady("s1", []string{"u1", "u3"}) {
		t.Fatal("AllReady() must require every listed member")
	}

	r.ClearReady("s1", "u2")
	if r.Ready("s1", "u2") || r.ReadyCount("s1") != 1 {
		t.Fatalf("u2 still ready after clear, count = %d", r.ReadyCount("s1"))
	}

	ids := r.ReadyUserIDs("s1")
	if len(ids) != 1 || ids[0] != "u1" {
		t.Fatalf("ReadyUserIDs() = %v, want [u1]", ids)
	}
}

func TestRegistryConnections(t *testing.T) {
	r := NewRegistry()
	r.OpenSession("s1")

	r.SetConnected("s1", "u1", true)
	r.SetConnected("s1", "u2", true)
	if r.ConnectedCount("s1") != 2 {
		t.Fatalf("ConnectedCount() = %d, want 2", r.ConnectedCount("s1"))
	}
	r.SetConnected("s1", "u2", false)
	if r.ConnectedCount("s1") != 1 {
		t.Fatalf("ConnectedCount() = %d, want 1 after disconnect", r.ConnectedCount("s1"))
	}
}

func TestRegistryUsedScenarios(t *testing.T) {
	r := NewRegistry()
	r.OpenSession("s1")

	r.MarkScenarioUsed("s1", "a")
	r.MarkScenarioUsed("s1", "b")
	used := r.UsedScenarios("s1")
	if !used["a"] || !used["b"] || len(used) != 2 {
		t.Fatalf("UsedScenarios() = %v, want a and b", used)
	}

	// The returned map is a copy.
	used["c"] = true
	if r.UsedScenarios("s1")["c"] {
		t.Fatal("mutating the returned map must not affect the registry")
	}
}

func TestRegistryCloseReleasesState(t *testing.T) {
	r := NewRegistry()
	r.OpenSession("s1")
	r.SetReady("s1", "u1", true)

	r.CloseSession("s1")
	if r.ReadyCount("s1") != 0 {
		t.Fatal("closed session must report no ready members")
	}
}

func TestRegistryToleratesUnknownSession(t *testing.T) {
	r := NewRegistry()

	r.SetReady("ghost", "u1", true)
	r.MarkScenarioUsed("ghost", "a")
	if r.Ready("ghost", "u1") || r.ReadyCount("ghost") != 0 {
		t.Fatal("writes before OpenSession must be discarded")
	}
	if len(r.UsedScenarios("ghost")) != 0 {
		t.Fatal("unknown session must report no used scenarios")
	}
}
