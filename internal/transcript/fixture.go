package transcript

// MockPayload returns the fixed three-segment fixture used by mock runs.
// A fresh map is returned on every call.
func MockPayload() map[string]any {
	return map[string]any{
		"segments": []any{
			map[string]any{"start": 0.0, "end": 2.0, "text": "这是第一段测试字幕。"},
			map[string]any{"start": 2.0, "end": 5.0, "text": "这是第二段测试字幕，用于演示SRT生成功能。"},
			map[string]any{"start": 5.0, "end": 8.0, "text": "这是第三段测试字幕，包含多行内容。"},
		},
	}
}
