package bot

import "testing"

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	StartTelegramBot(nil)
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2_400_000_000, "2.4B"},
		{61_500_000, "61.5M"},
		{430_000, "430K"},
		{950, "950"},
	}
	for _, c := range cases {
		if got := formatUSD(c.in); got != c.want {
			t.Errorf("formatUSD(%f) = %q, want %q", c.in, got, c.want)
		}
	}
}
