package entity

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
