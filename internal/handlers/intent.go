package handlers

import "strings"

// commandFromText maps a few plain-language requests onto bot commands so the
// common actions work without the slash syntax.
func commandFromText(text string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" || len([]rune(t)) > 8 {
		return "", false
	}

	aliases := []struct {
		cmd      string
		keywords []string
	}{
		{cmd: "unlock", keywords: []string{"解锁风格", "解锁", "unlock"}},
		{cmd: "new", keywords: []string{"新对话", "新建对话", "new chat"}},
		{cmd: "style", keywords: []string{"当前风格", "风格状态"}},
		{cmd: "assets", keywords: []string{"我的图标", "资产列表"}},
		{cmd: "help", keywords: []string{"帮助", "help"}},
	}

	for _, a := range aliases {
		for _, kw := range a.keywords {
			if t == kw {
				return a.cmd, true
			}
		}
	}
	return "", false
}
