package models

import (
	"encoding/json"
	"time"
)

// StateBlob is a versioned JSON document owned by one client profile.
type StateBlob struct {
	Key       string          `json:"key"`
	Version   int             `json:"version"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ClientState is the GORM row backing a StateBlob.
type ClientState struct {
	ClientKey string    `gorm:"type:text;primaryKey" json:"client_key"`
	Key       string    `gorm:"column:state_key;type:text;primaryKey" json:"key"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	Data      string    `gorm:"type:text" json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ClientState) TableName() string {
	return "client_states"
}
