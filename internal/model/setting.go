package model

type Setting struct {
	Base
	Key    string `db:"key" json:"key"`
	Value  string `db:"value" json:"value"`
	Public bool   `db:"public" json:"public"`
}

type UpsertSettingRequest struct {
	Value  string `json:"value" binding:"required"`
	Public *bool  `json:"public"`
}
