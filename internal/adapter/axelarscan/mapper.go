package axelarscan

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	dto "swapbridge/internal/adapter/axelarscan/dto"
	"swapbridge/internal/domain/entity"
)

const unknownValue = "unknown"

// toDomainTransaction flattens a transfer record, preferring the send object,
// then the link object, then legacy top-level fields.
func toDomainTransaction(raw dto.TransferRaw, explorerURL string, now time.Time) entity.Transaction {
	tx := entity.Transaction{
		ID:               raw.ID,
		Status:           firstNonEmpty(raw.Status, unknownValue),
		SimplifiedStatus: raw.SimplifiedStatus,
		Denom:            unknownValue,
		CreatedAt:        now,
	}

	var linkSource, linkDest, linkSender, linkRecipient string
	var linkCreated int64
	if raw.Link != nil {
		linkSource = raw.Link.SourceChain
		linkDest = raw.Link.DestinationChain
		linkSender = raw.Link.SenderAddress
		linkRecipient = raw.Link.RecipientAddress
		if raw.Link.CreatedAt != nil {
			linkCreated = raw.Link.CreatedAt.MS
		}
	}

	var sendSource, sendDest, sendSender, sendRecipient string
	var sendCreated int64
	if s := raw.Send; s != nil {
		tx.TxHash = s.TxHash
		sendSource = s.SourceChain
		sendDest = s.DestinationChain
		sendSender = s.SenderAddress
		sendRecipient = s.RecipientAddress
		if s.Amount != nil {
			tx.Amount = float64(*s.Amount)
		}
		if s.Denom != "" {
			tx.Denom = s.Denom
		}
		if s.CreatedAt != nil {
			sendCreated = s.CreatedAt.MS
		}
	} else {
		tx.TxHash = raw.TxHash
		tx.Amount = float64(raw.Amount)
		if raw.Asset != "" {
			tx.Denom = raw.Asset
		}
	}

	tx.SourceChain = firstNonEmpty(sendSource, linkSource, raw.SourceChain, unknownValue)
	tx.DestinationChain = firstNonEmpty(sendDest, linkDest, raw.DestinationChain, unknownValue)
	tx.Sender = firstNonEmpty(sendSender, linkSender, raw.Sender)
	tx.Recipient = firstNonEmpty(sendRecipient, linkRecipient, raw.Recipient)

	switch {
	case sendCreated > 0:
		tx.CreatedAt = time.UnixMilli(sendCreated)
	case linkCreated > 0:
		tx.CreatedAt = time.UnixMilli(linkCreated)
	default:
		if ms := legacyCreatedAt(raw.CreatedAt); ms > 0 {
			tx.CreatedAt = time.UnixMilli(ms)
		}
	}

	if raw.TimeSpent != nil {
		tx.TimeSpent = int64(raw.TimeSpent.Total)
	}

	if tx.ID == "" {
		tx.ID = tx.TxHash
	}
	if tx.ID != "" {
		tx.Link = strings.TrimRight(explorerURL, "/") + "/transfer/" + tx.ID
	}
	return tx
}

// legacyCreatedAt reads created_at as either epoch milliseconds or an {"ms": ...} object.
func legacyCreatedAt(raw json.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	if raw[0] == '{' {
		var ts dto.TimestampRaw
		if err := json.Unmarshal(raw, &ts); err == nil {
			return ts.MS
		}
		return 0
	}
	var f dto.FlexFloat
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return int64(f)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
