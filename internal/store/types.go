package store

// Log is a named container of QSOs.
type Log struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Attr is one ADIF field stored against a QSO.
type Attr struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	AppDefined bool   `json:"app_defined,omitempty"`
}

// QSO is a contact as persisted: the header columns plus its attribute rows.
type QSO struct {
	Key          string `json:"key"`
	LogID        int64  `json:"log_id"`
	Call         string `json:"call"`
	Freq         string `json:"freq"`
	Mode         string `json:"mode"`
	Operator     string `json:"operator"`
	MyGridsquare string `json:"my_gridsquare"`
	Attrs        []Attr `json:"attrs"`
}

// Fields returns the attribute rows as a field-name to value map.
func (q QSO) Fields() map[string]string {
	fields := make(map[string]string, len(q.Attrs))
	for _, a := range q.Attrs {
		fields[a.Name] = a.Value
	}
	return fields
}
