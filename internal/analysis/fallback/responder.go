// Package fallback produces deterministic canned answers when the analysis
// backend cannot be reached, so a conversation turn never hard-fails.
package fallback

import (
	"encoding/json"
	"strings"
)

// Reply is the degraded substitute for an upstream assistant turn.
type Reply struct {
	Content  string
	Analysis json.RawMessage
}

// entry pairs a trigger keyword with its canned response. Order matters:
// the first matching keyword wins.
type entry struct {
	keyword  string
	response string
}

var cannedResponses = []entry{
	{"karies", "Karies gigi adalah kerusakan pada lapisan keras gigi yang disebabkan oleh asam dari bakteri. Tanda awalnya berupa bercak putih atau coklat pada permukaan gigi. Jika dibiarkan, karies dapat berkembang menjadi lubang. Disarankan untuk memeriksakan gigi ke dokter secara rutin."},
	{"gigi berlubang", "Gigi berlubang terjadi ketika karies sudah merusak lapisan email dan dentin. Penanganannya biasanya dengan penambalan oleh dokter gigi. Hindari makanan manis dan sikat gigi dua kali sehari untuk mencegah lubang bertambah besar."},
	{"sakit gigi", "Untuk meredakan sakit gigi sementara, berkumurlah dengan air garam hangat dan hindari makanan yang terlalu panas, dingin, atau manis. Jika nyeri berlanjut lebih dari dua hari, segera buat janji temu dengan dokter gigi."},
	{"gusi", "Gusi yang sehat berwarna merah muda dan tidak mudah berdarah. Gusi bengkak atau berdarah saat menyikat bisa menjadi tanda gingivitis. Perbaiki kebersihan mulut dan gunakan benang gigi secara teratur."},
	{"behel", "Behel atau kawat gigi digunakan untuk merapikan susunan gigi. Lama perawatan bervariasi antara satu hingga tiga tahun tergantung kondisi. Konsultasikan dengan dokter gigi spesialis ortodonti untuk evaluasi awal."},
	{"bungsu", "Gigi bungsu biasanya tumbuh di usia 17-25 tahun. Jika tumbuh miring atau terjepit, gigi bungsu dapat menyebabkan nyeri dan perlu dicabut. Pemeriksaan rontgen panoramik membantu menilai posisinya."},
	{"putih", "Untuk menjaga gigi tetap putih, batasi kopi, teh, dan rokok, serta sikat gigi secara teratur. Perawatan pemutihan (bleaching) sebaiknya dilakukan di bawah pengawasan dokter gigi."},
	{"sikat", "Sikatlah gigi dua kali sehari selama dua menit dengan pasta gigi berfluoride. Ganti sikat gigi setiap tiga bulan dan jangan lupa membersihkan sela gigi dengan benang gigi."},
	{"bau mulut", "Bau mulut umumnya disebabkan oleh sisa makanan dan bakteri di lidah dan sela gigi. Sikat lidah, minum cukup air, dan periksakan gigi jika keluhan menetap."},
	{"halo", "Halo! Saya asisten gigi DentaCare. Saat ini saya berjalan dalam mode terbatas, tetapi tetap bisa menjawab pertanyaan umum seputar kesehatan gigi dan mulut."},
	{"hai", "Hai! Ada yang bisa saya bantu seputar kesehatan gigi Anda?"},
}

const defaultResponse = "Terima kasih atas pertanyaan Anda. Saat ini asisten AI sedang tidak tersedia, jadi saya hanya dapat memberikan jawaban umum. Untuk keluhan spesifik, silakan buat janji temu dengan dokter gigi melalui aplikasi."

// imageAnalysis is the minimal synthesized payload attached when the user
// sent an image that could not be analyzed live.
type imageAnalysis struct {
	ImageProcessed bool    `json:"image_processed"`
	Confidence     float64 `json:"confidence"`
	Note           string  `json:"note"`
}

// Respond picks the canned answer for a message. Pure and deterministic:
// the same message always selects the same response.
func Respond(message string, hadImage bool) Reply {
	normalized := strings.ToLower(strings.TrimSpace(message))

	content := defaultResponse
	for _, e := range cannedResponses {
		if strings.Contains(normalized, e.keyword) {
			content = e.response
			break
		}
	}

	reply := Reply{Content: content}
	if hadImage {
		payload, _ := json.Marshal(imageAnalysis{
			ImageProcessed: true,
			Confidence:     0.0,
			Note:           "Analisis penuh memerlukan koneksi ke backend AI. Gambar diterima dan dapat dianalisis ulang saat layanan pulih.",
		})
		reply.Analysis = payload
	}

	return reply
}
