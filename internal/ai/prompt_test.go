package ai

import (
	"strings"
	"testing"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("오늘 회사에서 상사에게 혼났어요", domain.EmotionSad, 3)
	want := "상황(3줄):\n오늘 회사에서 상사에게 혼났어요\n\n감정:\n슬픔\n\n에너지(1~5):\n3"
	if got != want {
		t.Fatalf("prompt mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestEmotionLabel_AllEmotionsMapped(t *testing.T) {
	for _, e := range domain.Emotions {
		if EmotionLabel(e) == string(e) {
			t.Fatalf("emotion %q has no label", e)
		}
	}
	if EmotionLabel("happy") != "happy" {
		t.Fatalf("unknown emotion should pass through")
	}
}

func TestSystemPromptFor(t *testing.T) {
	if SystemPromptFor(false) != SystemPrompt {
		t.Fatalf("non-strict prompt should be the base prompt")
	}
	strict := SystemPromptFor(true)
	if !strings.HasPrefix(strict, SystemPrompt) || strict == SystemPrompt {
		t.Fatalf("strict prompt should extend the base prompt")
	}
	if !strings.Contains(SystemPrompt, CrisisSentinel) {
		t.Fatalf("system prompt must name the crisis sentinel")
	}
}
