package ai

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// MockPromptVersion tags records produced by MockGenerator.
const MockPromptVersion = "mock-v1"

var mockResults = map[domain.Emotion]domain.PrescriptionResult{
	domain.EmotionAnxious: {
		CoreReason:      "불확실한 미래에 대한 통제력 상실감이 핵심입니다",
		NextAction:      "오늘 저녁 10분간 심호흡 명상 앱으로 호흡 연습하기",
		ForbiddenPhrase: "모든 게 잘못될 거야",
	},
	domain.EmotionAngry: {
		CoreReason:      "기대와 현실의 간극에서 오는 좌절감입니다",
		NextAction:      "점심시간에 15분 빠르게 걷기로 에너지 발산하기",
		ForbiddenPhrase: "저 사람 때문에 다 망했어",
	},
	domain.EmotionSad: {
		CoreReason:      "중요한 것을 잃었거나 잃을 것 같다는 상실감입니다",
		NextAction:      "오늘 밤 좋아하는 노래 3곡 들으며 감정 허용하기",
		ForbiddenPhrase: "나는 항상 혼자야",
	},
	domain.EmotionTired: {
		CoreReason:      "에너지 소모 대비 회복이 부족한 상태입니다",
		NextAction:      "오늘은 평소보다 1시간 일찍 잠자리에 들기",
		ForbiddenPhrase: "쉬면 안 돼, 더 해야 해",
	},
	domain.EmotionConfused: {
		CoreReason:      "선택지가 많거나 정보가 부족해 방향을 잡기 어렵습니다",
		NextAction:      "내일 아침 10분간 종이에 생각 3가지만 적어보기",
		ForbiddenPhrase: "어차피 뭘 해도 모르겠어",
	},
}

// MockGenerator returns a fixed prescription per emotion without any network
// call. It is used for local development and demos.
type MockGenerator struct {
	calls atomic.Int64
}

// NewMockGenerator returns a ready MockGenerator.
func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

// PromptVersion implements Generator.
func (m *MockGenerator) PromptVersion() string { return MockPromptVersion }

// Calls reports how many times Generate ran.
func (m *MockGenerator) Calls() int64 { return m.calls.Load() }

// Generate implements Generator by serializing the canned result for the
// requested emotion. Unknown emotions fall back to the "confused" entry.
func (m *MockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, ok := mockResults[req.Emotion]
	if !ok {
		res = mockResults[domain.EmotionConfused]
	}
	b, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
