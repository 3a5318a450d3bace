package partials

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/donation-front/internal/domain/model"
	"github.com/bigkaa/donation-front/internal/service"
	"github.com/bigkaa/donation-front/internal/ui/i18n"
)

func TestMain(m *testing.M) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	if _, err := i18n.Init(logger); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	ctx := i18n.WithLang(context.Background(), i18n.LangZhTW)
	require.NoError(t, c.Render(ctx, &b))
	return b.String()
}

func TestMessage(t *testing.T) {
	html := render(t, Message(MessageData{Kind: MessageError, Text: `發生錯誤：<b>"x"</b>`}))

	assert.Contains(t, html, `id="message"`)
	assert.Contains(t, html, `message-error`)
	assert.Contains(t, html, `發生錯誤：&lt;b&gt;&#34;x&#34;&lt;/b&gt;`)
	assert.NotContains(t, html, `<b>`)
}

func TestMessage_Classes(t *testing.T) {
	tests := []struct {
		kind MessageKind
		want string
	}{
		{MessageNone, `class="message"`},
		{MessageSuccess, `class="message message-success"`},
		{MessageError, `class="message message-error"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			html := render(t, Message(MessageData{Kind: tt.kind, Text: "ok"}))
			assert.Contains(t, html, `<div id="message" `+tt.want+` role="status" aria-live="polite">ok</div>`)
		})
	}
}

func TestDonationForm(t *testing.T) {
	html := render(t, DonationForm(DonationFormData{
		Values: model.Donation{ItemName: `罐頭 "特價"`, Quantity: "10"},
		Today:  "2025-01-05",
	}))

	for _, id := range []string{"donation-form", "itemName", "quantity", "unit", "donationDate", "expiryDate", "location", "handler", "photo"} {
		assert.Contains(t, html, `id="`+id+`"`, "отсутствует элемент %s", id)
	}
	assert.Contains(t, html, `value="罐頭 &#34;特價&#34;"`)
	assert.Contains(t, html, `name="donationDate" value="2025-01-05">`)
	assert.Contains(t, html, `name="quantity" value="10" min="0" step="any" inputmode="decimal" required>`)
	assert.Equal(t, 3, strings.Count(html, `<span class="required"`), "обязательны наименование, количество и единица")
	assert.Contains(t, html, `送出中…`)
	assert.NotContains(t, html, `hx-swap-oob`)
}

func TestDonationForm_OOB(t *testing.T) {
	html := render(t, DonationForm(DonationFormData{Today: "2025-01-05", OOB: true}))
	assert.Contains(t, html, `hx-swap-oob="true"`)
	assert.Contains(t, html, `name="itemName" value=""`)
}

func TestRecentList_Cards(t *testing.T) {
	html := render(t, RecentList(service.ListView{
		Status: service.ListOK,
		Cards: []service.RecordCard{
			{ItemName: "<script>alert(1)</script>", Quantity: "0", Unit: "包", DonationDate: "2025/1/5", PhotoURL: "https://img/1.jpg"},
			{Quantity: "3", Unit: "罐", Location: "倉庫A"},
		},
	}))

	assert.Contains(t, html, `id="recent-list"`)
	assert.NotContains(t, html, `<script>`)
	assert.Contains(t, html, `&lt;script&gt;alert(1)&lt;/script&gt;`)
	assert.Contains(t, html, `src="https://img/1.jpg"`)
	assert.Equal(t, 1, strings.Count(html, `<img`), "миниатюра только при наличии фото")
	assert.Contains(t, html, `（未填品項）`)
	assert.Contains(t, html, `放置位置：倉庫A`)
	assert.Contains(t, html, `經手人：（未填）`)
	assert.Contains(t, html, `有效期限：—`)
	assert.Contains(t, html, `<strong>（未填品項）</strong> <span>× 3 罐</span>`)
	assert.Contains(t, html, `<span>× 0 包</span>`)
}

func TestRecentList_UnsafePhotoURL(t *testing.T) {
	html := render(t, RecentList(service.ListView{
		Status: service.ListOK,
		Cards:  []service.RecordCard{{ItemName: "x", PhotoURL: "javascript:alert(1)"}},
	}))
	assert.NotContains(t, html, `javascript:`)
}

func TestRecentList_States(t *testing.T) {
	tests := []struct {
		name string
		view service.ListView
		want string
	}{
		{"пустой список", service.ListView{Status: service.ListEmpty}, "目前尚無捐贈記錄。"},
		{"бизнес-ошибка", service.ListView{Status: service.ListRejected, Message: "unknown"}, "載入失敗：unknown"},
		{"ошибка транспорта", service.ListView{Status: service.ListUnavailable, Message: "timeout"}, "載入時發生錯誤：timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, RecentList(tt.view))
			assert.Contains(t, html, tt.want)
			assert.NotContains(t, html, `class="card"`)
		})
	}
}

func TestNearExpiryList(t *testing.T) {
	html := render(t, NearExpiryList(service.ListView{
		Status: service.ListOK,
		Days:   7,
		Cards: []service.RecordCard{
			{ItemName: "old", ExpiryDate: "2024/12/31", HasExpiry: true, RemainingDays: -5},
			{ItemName: "A", ExpiryDate: "2025/1/9", HasExpiry: true, RemainingDays: 4},
			{ItemName: "B", ExpiryDate: "2025/1/14", HasExpiry: true, RemainingDays: 9},
			{ItemName: "none"},
		},
	}))

	assert.Contains(t, html, `id="near-expiry-list"`)
	assert.Contains(t, html, `（已過期 5 天）`)
	assert.Contains(t, html, `（還有 4 天）`)
	assert.Contains(t, html, `（還有 9 天）`)
	assert.Contains(t, html, `有效期限：—`)
	assert.Less(t, strings.Index(html, "old"), strings.Index(html, ">A<"))
	assert.Less(t, strings.Index(html, ">A<"), strings.Index(html, ">B<"))
}

func TestNearExpiryList_Empty(t *testing.T) {
	html := render(t, NearExpiryList(service.ListView{Status: service.ListEmpty, Days: 14}))
	assert.Contains(t, html, "未來 14 天內沒有即期品。")
}
