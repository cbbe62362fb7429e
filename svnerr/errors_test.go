package svnerr

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := &Error{
		Kind:    KindDomain,
		Code:    CodeFSNoSuchRevision,
		Message: "no such revision 99",
		Cause: &Error{
			Kind:    KindDomain,
			Code:    CodeBadURL,
			Message: "bogus URL",
		},
	}
	s := e.Error()
	if !strings.Contains(s, "[domain]") || !strings.Contains(s, "E160006") {
		t.Fatalf("formatted = %q", s)
	}
	if !strings.Contains(s, "caused by") || !strings.Contains(s, "E125002") {
		t.Fatalf("cause missing: %q", s)
	}
}

func TestChainFlattensOutermostFirst(t *testing.T) {
	e := &Error{Code: 1, Message: "outer", Cause: &Error{Code: 2, Message: "mid", Cause: &Error{Code: 3, Message: "inner"}}}
	chain := e.Chain()
	if len(chain) != 3 {
		t.Fatalf("chain = %v", chain)
	}
	for i, want := range []int32{1, 2, 3} {
		if chain[i].Code != want {
			t.Fatalf("chain[%d].Code = %d, want %d", i, chain[i].Code, want)
		}
	}
}

func TestSentinelMatchingThroughChain(t *testing.T) {
	wrapped := &Error{
		Kind:    KindDomain,
		Code:    CodeRANotAuthorized,
		Message: "authorization failed",
		Cause:   &Error{Kind: KindBridge, Code: CodeCancelled, Message: "operation cancelled"},
	}
	if !errors.Is(wrapped, ErrCancelled) {
		t.Fatal("cancellation not found in chain")
	}
	if errors.Is(wrapped, ErrPoolClosed) {
		t.Fatal("unrelated sentinel matched")
	}
}

func TestIsDistinguishesKind(t *testing.T) {
	domain := &Error{Kind: KindDomain, Code: CodeCancelled}
	if errors.Is(domain, ErrCancelled) {
		t.Fatal("domain error matched bridge sentinel with same code")
	}
}

func TestIsCode(t *testing.T) {
	e := &Error{Code: CodeBadURL, Cause: &Error{Code: CodeAuthnFailed}}
	if !IsCode(e, CodeAuthnFailed) {
		t.Fatal("inner code not found")
	}
	if IsCode(e, CodeFSNoSuchRevision) {
		t.Fatal("absent code reported")
	}
	if IsCode(errors.New("plain"), CodeBadURL) {
		t.Fatal("plain error matched")
	}
}

func TestKindClassification(t *testing.T) {
	if kindFor(CodeCancelled) != KindBridge {
		t.Fatal("cancellation must classify as bridge")
	}
	if kindFor(CodePanic) != KindBridge {
		t.Fatal("bridge-reserved code classified as domain")
	}
	if kindFor(CodeFSNoSuchRevision) != KindDomain {
		t.Fatal("native code classified as bridge")
	}
}

func TestHelpers(t *testing.T) {
	if err := UseAfterRelease("apr pool"); !errors.Is(err, ErrUseAfterRelease) {
		t.Fatalf("UseAfterRelease = %v", err)
	}
	if err := AllocationFailed(12); !errors.Is(err, ErrAllocFailed) {
		t.Fatalf("AllocationFailed = %v", err)
	}
	err := Panicked("boom")
	if err.Code != CodePanic || !strings.Contains(err.Message, "boom") {
		t.Fatalf("Panicked = %v", err)
	}
	if Cancel() != ErrCancelled {
		t.Fatal("Cancel must return the sentinel")
	}
}
