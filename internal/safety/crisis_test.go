package safety

import (
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestDetect_EveryKeywordAnywhereInText(t *testing.T) {
	for _, k := range Keywords() {
		cases := []string{
			k,
			"prefix " + k,
			k + " suffix",
			"오늘은 " + k + " 같은 생각이 들어요",
			"   " + k + "   ",
		}
		for _, in := range cases {
			if !Detect(in) {
				t.Errorf("Detect(%q) = false; want true (keyword %q)", in, k)
			}
		}
	}
}

func TestDetect_NegativeAndEmpty(t *testing.T) {
	negatives := []string{
		"",
		"   ",
		"오늘 회사에서 상사에게 혼났어요",
		"친구와 다퉜어요. 마음이 무거워요.",
		"I had a rough day at work",
		"내일 발표가 있어서 너무 긴장돼요",
	}
	for _, in := range negatives {
		if Detect(in) {
			t.Errorf("Detect(%q) = true; want false", in)
		}
	}
}

func TestDetect_ScenarioSentence(t *testing.T) {
	if !Detect("죽고 싶어요 정말 힘들어요") {
		t.Fatalf("expected crisis for 죽고 싶어요")
	}
	if !Detect("요즘 그냥 살기싫다") {
		t.Fatalf("expected crisis for unspaced 살기싫")
	}
}

func TestDetect_CaseInsensitiveLatin(t *testing.T) {
	for _, in := range []string{"SUICIDE", "I Want To Die", "Self-Harm thoughts", "kill MYSELF"} {
		if !Detect(in) {
			t.Errorf("Detect(%q) = false; want true", in)
		}
	}
}

func TestDetect_DecomposedHangul(t *testing.T) {
	nfd := norm.NFD.String("자살")
	if nfd == "자살" {
		t.Fatalf("test precondition: NFD form should differ")
	}
	if !Detect(nfd) {
		t.Fatalf("decomposed hangul should still match")
	}
}

func TestDetect_SubstringNotBoundaryAware(t *testing.T) {
	// accepted false positive: keyword embedded in a longer word
	if !Detect("손목시계를 잃어버렸어요") {
		t.Fatalf("substring match expected to fire inside a longer word")
	}
}

func TestKeywords_ReturnsCopy(t *testing.T) {
	k := Keywords()
	if len(k) == 0 {
		t.Fatalf("keyword list must not be empty")
	}
	k[0] = "mutated"
	if Keywords()[0] == "mutated" {
		t.Fatalf("Keywords must return a copy")
	}
	for _, kw := range Keywords() {
		if strings.TrimSpace(kw) != kw || kw == "" {
			t.Fatalf("keyword %q must be trimmed and non-empty", kw)
		}
	}
}

func TestSafetyMessage_NonEmpty(t *testing.T) {
	if SafetyMessage.Title == "" || SafetyMessage.Body == "" || SafetyMessage.NextStep == "" {
		t.Fatalf("safety message fields must be set: %+v", SafetyMessage)
	}
}
