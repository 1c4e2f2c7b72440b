package telegram

import (
	"fmt"

	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
	"github.com/ogurasousui/hr-intake-bot/internal/core/workflow"
)

// User-facing messages, in Uzbek like the rest of the process.
const (
	msgAskToken       = "🔐 Tokenni kiriting:"
	msgBadToken       = "❌ Token noto‘g‘ri."
	msgUnavailable    = "⚠️ Xizmat bilan aloqa yo‘q. Keyinroq urinib ko‘ring."
	msgManagerMenu    = "📋 Menejer menyusi:"
	msgHRMenu         = "📋 HR menyusi:"
	msgAskCode        = "🔎 Xodim kodini kiriting:"
	msgCodeNotFound   = "❌ Xodim topilmadi."
	msgAskDate        = "📅 Sana (DD.MM.YYYY):"
	msgBadDate        = "❌ Sana noto‘g‘ri. Masalan: 31.12.2024"
	msgAskLetter      = "📄 Ariza bormi?"
	msgSubmitted      = "✅ HR ga yuborildi."
	msgDiscarded      = "❌ Bekor qilindi."
	msgEmptyPending   = "📭 Kutilayotganlar yo‘q."
	msgEmptyArchive   = "📭 Arxiv bo‘sh."
	msgAccepted       = "✅ Qabul qilindi."
	msgAlreadyHandled = "⚠️ Allaqachon qabul qilingan."
	msgNoPermission   = "⛔ Ruxsat yo‘q."
	msgInternalError  = "⚠️ Xatolik yuz berdi. Qaytadan urinib ko‘ring."
)

func letterLabel(hasLetter bool) string {
	if hasLetter {
		return "Bor"
	}
	return "Yo‘q"
}

func employeeCard(rec *employee.Record) string {
	return fmt.Sprintf("👤 %s\n💼 %s\n🏬 %s\n\nSababni tanlang:", rec.Name, rec.Position, rec.Branch)
}

func summaryText(s *workflow.Summary) string {
	return fmt.Sprintf(
		"👤 %s\n💼 %s\n🏬 %s\n📌 Sabab: %s\n📅 Sana: %s\n📄 Ariza: %s\n\nTasdiqlaysizmi?",
		s.Employee.Name,
		s.Employee.Position,
		s.Employee.Branch,
		s.Reason,
		s.EffectiveDate.Format(workflow.DateLayout),
		letterLabel(s.HasLetter),
	)
}

func requestCard(req *intake.Request) string {
	return fmt.Sprintf(
		"👤 %s\n💼 %s\n🏬 %s\n📌 Sabab: %s\n📅 Sana: %s\n📄 Ariza: %s\n👨‍💼 Menejer: %s\n🕒 %s",
		req.Employee.Name,
		req.Employee.Position,
		req.Employee.Branch,
		req.Reason,
		req.EffectiveDate.Format(workflow.DateLayout),
		letterLabel(req.HasLetter),
		req.SubmittedBy,
		req.SubmittedAt.Format("02.01.2006 15:04:05"),
	)
}
