package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply-keyboard button labels.
const (
	btnReport  = "➕ Ishdan bo‘shagan xodimni yuborish"
	btnPending = "📋 Kutilmoqda"
	btnArchive = "📦 Arxiv"
	btnCancel  = "❌ Bekor qilish"
)

// Suggested reasons. They are shortcuts only; any free text is
// accepted as a reason.
var suggestedReasons = []string{"Oilaviy sabablar", "O‘qishi tufayli"}

// Inline callback payloads.
const (
	callbackYes          = "yes"
	callbackNo           = "no"
	callbackAcceptPrefix = "accept:"
)

func managerMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnReport)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func hrMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPending),
			tgbotapi.NewKeyboardButton(btnArchive),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func reasonKeyboard() tgbotapi.ReplyKeyboardMarkup {
	row := make([]tgbotapi.KeyboardButton, 0, len(suggestedReasons))
	for _, reason := range suggestedReasons {
		row = append(row, tgbotapi.NewKeyboardButton(reason))
	}
	kb := tgbotapi.NewReplyKeyboard(
		row,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func yesNoInline() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Ha", callbackYes),
			tgbotapi.NewInlineKeyboardButtonData("❌ Yo‘q", callbackNo),
		),
	)
}

func acceptInline(requestID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Qabul qilindi", callbackAcceptPrefix+requestID),
		),
	)
}

// parseYesNo maps inline yes/no callback data to a choice.
func parseYesNo(data string) (bool, bool) {
	switch data {
	case callbackYes:
		return true, true
	case callbackNo:
		return false, true
	default:
		return false, false
	}
}

// parseAccept extracts the request id from accept callback data.
func parseAccept(data string) (string, bool) {
	id, ok := strings.CutPrefix(data, callbackAcceptPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// removeInlineKeyboard clears the inline keyboard of a sent message.
func removeInlineKeyboard(chatID int64, messageID int) tgbotapi.EditMessageReplyMarkupConfig {
	return tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
}
