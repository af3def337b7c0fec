package review

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Replay key.Binding
	Type   key.Binding
	Submit key.Binding
	Quit   key.Binding
	Yes    key.Binding
	No     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Replay: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "replay audio")),
		Type:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "type/choose")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Quit:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "end review")),
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "end review")),
		No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep going")),
	}
}
