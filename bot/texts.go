package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/kinobot/storage"
	"github.com/m3rciful/kinobot/telegram/format"
)

// Reply keyboard button labels. Incoming text is matched against these
// before any other routing.
const (
	BtnAddMovie   = "➕ Kino qo'shish"
	BtnBotService = "🤖 Telegram bot yasatish"
	BtnBack       = "🔙 Orqaga"
)

const (
	msgAdminOnly   = "Sizda kino qo'shish huquqi mavjud emas."
	msgUserSaveErr = "Foydalanuvchini qo'shishda xatolik yuz berdi."

	msgAskTitle    = "Kino nomini yuboring."
	msgAskYear     = "Kino yilini yuboring."
	msgAskGenre    = "Kino janrini yuboring."
	msgAskLanguage = "Kino tilini yuboring."
	msgAskCode     = "Kino kodini yuboring."
	msgAskVideo    = "Kino videosini yuklang (faqat MP4 format)."

	msgYearNotNumber = "Yil raqam bo'lishi kerak. Qaytadan yuboring."
	msgVideoMP4Only  = "Iltimos, MP4 formatidagi videoni yuboring."
	msgMovieAddFail  = "Kino qo'shishda xatolik yuz berdi. Iltimos, keyinroq qayta urinib ko'ring."

	msgMovieNotFound  = "Kino topilmadi. Iltimos, kodni to'g'ri kiriting yoki qayta urinib ko'ring."
	msgStorageDown    = "Ma'lumotlar bazasiga ulanishda xatolik. Iltimos, keyinroq qayta urinib ko'ring."
	msgVideoSendFail  = "Videoni jo'natishda xatolik yuz berdi."
	msgVideoMissing   = "Kino videosi topilmadi."

	msgBotService = "<b>🤖 Telegram bot yasatish</b>\n\nO'zingizga mos Telegram bot buyurtma qilish uchun adminga murojaat qiling."
)

func greeting(firstName string) string {
	return fmt.Sprintf("<b>👋Salom %s</b>\n\n<i>Kino kodini kiriting va kinoni yuklab oling.</i>",
		format.EscapeHTML(firstName))
}

func movieAdded(title string) string {
	return "Kino muvaffaqiyatli qo'shildi: " + title
}

// movieCaption renders the HTML caption attached to a delivered video.
func movieCaption(m *storage.Movie, botUsername string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎬 <b>Nomi:</b> %s\n", format.EscapeHTML(m.Title))
	fmt.Fprintf(&b, "📆 <b>Yili:</b> %d\n", m.Year)
	fmt.Fprintf(&b, "🎭 <b>Janri:</b> %s\n", format.EscapeHTML(m.Genre))
	fmt.Fprintf(&b, "🌐 <b>Tili:</b> %s\n", format.EscapeHTML(m.Language))
	fmt.Fprintf(&b, "🗂 <b>Kodi:</b> %s", format.EscapeHTML(m.Code))
	if botUsername != "" {
		fmt.Fprintf(&b, "\n\n📥 <b>Yuklab olish:</b> @%s", botUsername)
	}
	return b.String()
}
