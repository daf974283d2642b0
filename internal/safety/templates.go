package safety

// Message is the fixed response shown instead of a prescription.
type Message struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	NextStep string `json:"next_step"`
}

// SafetyMessage is returned for every request the crisis gate blocks.
var SafetyMessage = Message{
	Title:    "긴급한 안전 안내",
	Body:     "지금은 처방을 생성하지 않습니다. 즉시 주변의 도움을 요청하거나, 지역의 긴급 도움 서비스를 이용하세요.",
	NextStep: "가까운 사람에게 연락하거나, 긴급 지원 기관에 연결해보세요.",
}

// Disclaimer is attached to every generated prescription.
var Disclaimer = Message{
	Title: "안내사항",
	Body:  "이 서비스는 의료 서비스가 아닙니다. 전문적인 상담이나 치료가 필요한 경우 의료 전문가와 상담하세요.",
}
