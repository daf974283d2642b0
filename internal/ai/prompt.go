package ai

import (
	"fmt"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// PromptVersion identifies the template below. Bump it whenever SystemPrompt
// or BuildUserPrompt change shape.
const PromptVersion = "v1"

// CrisisSentinel is the literal reply the model is told to give when it sees
// a harm signal instead of producing JSON.
const CrisisSentinel = "CRISIS"

// SystemPrompt instructs the model to return exactly one JSON object.
const SystemPrompt = `너는 사용자의 감정을 '정리'하고 '24시간 안에 실행 가능한 행동 1개'로 전환하는 코치다.
의료/진단/치료/상담을 하지 마라.
출력은 반드시 JSON만 반환한다. 다른 텍스트를 포함하지 마라.

규칙:
- core_reason: 핵심 원인 1문장 (최대 60자)
- next_action_24h: 24시간 내 가능한 구체적 행동 1개 (최대 60자, 시간/횟수/장소 중 하나 포함)
- forbidden_phrase: 하지 말아야 할 문장 1개 (최대 60자)
- 추상적 위로 금지: "힘내", "괜찮아질거야" 등 금지
- 유해/위기 신호가 보이면 JSON 대신 응답하지 말고, "` + CrisisSentinel + `"만 출력하라.`

// strictSuffix is appended to SystemPrompt on the retry attempt.
const strictSuffix = "\n\n중요: 반드시 순수 JSON만 출력하라. 다른 텍스트 없이."

var emotionLabels = map[domain.Emotion]string{
	domain.EmotionAnxious:  "불안",
	domain.EmotionAngry:    "화남",
	domain.EmotionSad:      "슬픔",
	domain.EmotionTired:    "지침",
	domain.EmotionConfused: "혼란",
}

// EmotionLabel returns the Korean label used in prompts. Unknown values are
// passed through unchanged.
func EmotionLabel(e domain.Emotion) string {
	if l, ok := emotionLabels[e]; ok {
		return l
	}
	return string(e)
}

// SystemPromptFor returns the system prompt for an attempt.
func SystemPromptFor(strict bool) string {
	if strict {
		return SystemPrompt + strictSuffix
	}
	return SystemPrompt
}

// BuildUserPrompt renders the user turn from validated input.
func BuildUserPrompt(situation string, emotion domain.Emotion, energy int) string {
	return fmt.Sprintf("상황(3줄):\n%s\n\n감정:\n%s\n\n에너지(1~5):\n%d", situation, EmotionLabel(emotion), energy)
}
