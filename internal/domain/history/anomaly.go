package history

// AnomalyDescription: penjelasan lengkap satu jenis anomali untuk laporan.
// Tabel ini murni fungsi dari jenis anomali, tidak bergantung data record.
type AnomalyDescription struct {
	Title       string
	Icon        string
	Color       string
	Simple      string
	Technical   string
	Implication string
	Example     string
}

var anomalyDescriptions = map[string]AnomalyDescription{
	"duplication": {
		Title:       "Duplikasi Frame",
		Icon:        "\U0001F501",
		Color:       "#FF6B6B",
		Simple:      "Frame yang sama diulang beberapa kali dalam video.",
		Technical:   "Dideteksi melalui perbandingan pHash dan dikonfirmasi dengan SIFT+RANSAC yang menemukan kecocokan fitur yang sangat tinggi antar frame.",
		Implication: "Ini bisa menjadi indikasi untuk memperpanjang durasi secara artifisial atau untuk menyembunyikan/menutupi konten yang telah dihapus di antara frame yang diduplikasi.",
		Example:     "Seperti Anda menyalin sebuah halaman dari buku dan menempelkannya lagi di tempat lain untuk membuat buku terlihat lebih tebal.",
	},
	"discontinuity": {
		Title:       "Diskontinuitas Video",
		Icon:        "✂️",
		Color:       "#45B7D1",
		Simple:      "Terjadi 'lompatan' atau patahan mendadak dalam aliran visual atau gerakan video.",
		Technical:   "Dideteksi melalui penurunan drastis pada skor SSIM (kemiripan struktural) atau lonjakan tajam pada magnitudo Optical Flow (aliran gerakan).",
		Implication: "Seringkali ini adalah tanda kuat dari pemotongan (cut) dan penyambungan (paste) video. Aliran alami video terganggu.",
		Example:     "Bayangkan sebuah kalimat di mana beberapa kata di tengahnya hilang, membuat kalimatnya terasa aneh dan melompat.",
	},
	"insertion": {
		Title:       "Penyisipan Konten",
		Icon:        "➕",
		Color:       "#4ECDC4",
		Simple:      "Adanya frame atau segmen baru yang tidak ada di video asli/baseline.",
		Technical:   "Dideteksi secara definitif dengan membandingkan hash setiap frame dari video bukti dengan video baseline. Frame yang ada di bukti tapi tidak di baseline dianggap sebagai sisipan.",
		Implication: "Ini adalah bukti kuat dari penambahan konten yang bisa mengubah konteks atau narasi video secara signifikan.",
		Example:     "Seperti menambahkan sebuah paragraf karangan Anda sendiri ke tengah-tengah novel karya orang lain.",
	},
}

var unknownAnomaly = AnomalyDescription{
	Title:       "Anomali Lain",
	Icon:        "❓",
	Color:       "#808080",
	Simple:      "Jenis anomali tidak dikenali.",
	Technical:   "-",
	Implication: "-",
	Example:     "-",
}

// DescribeAnomaly mengembalikan deskripsi untuk jenis anomali (tanpa prefix
// "anomaly_"); jenis yang tidak dikenali dapat entri generik.
func DescribeAnomaly(kind string) AnomalyDescription {
	if d, ok := anomalyDescriptions[kind]; ok {
		return d
	}
	return unknownAnomaly
}

// CountAnomalyTypes menghitung jumlah tiap jenis anomali yang dikenali;
// jenis lain diabaikan dari rekap.
func CountAnomalyTypes(locs []Localization) AnomalyCounts {
	var c AnomalyCounts
	for _, loc := range locs {
		switch loc.Kind() {
		case string(AnomalyDuplication):
			c.Duplication++
		case string(AnomalyInsertion):
			c.Insertion++
		case string(AnomalyDiscontinuity):
			c.Discontinuity++
		}
	}
	return c
}
