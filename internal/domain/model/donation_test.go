package model

import (
	"encoding/json"
	"testing"
)

func TestListResult_TolerantFields(t *testing.T) {
	body := `{
		"success": true,
		"data": [
			{"itemName": "白米", "quantity": 3, "unit": "包", "donationDate": "2025-01-02T16:00:00.000Z",
			 "expiryDate": null, "location": "", "handler": "王小明", "photoUrl": "https://img/1.jpg"},
			{"itemName": 12345, "quantity": "2.5", "unit": true}
		]
	}`

	var res ListResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !res.Success || len(res.Data) != 2 {
		t.Fatalf("ожидался success=true и 2 записи, получено %+v", res)
	}

	first := res.Data[0]
	if first.ItemName != "白米" || first.Quantity != "3" || first.ExpiryDate != "" {
		t.Errorf("первая запись разобрана неверно: %+v", first)
	}
	if first.PhotoURL != "https://img/1.jpg" {
		t.Errorf("PhotoURL = %q", first.PhotoURL)
	}

	second := res.Data[1]
	if second.ItemName != "12345" || second.Quantity != "2.5" || second.Unit != "true" {
		t.Errorf("вторая запись разобрана неверно: %+v", second)
	}
	if second.Location != "" {
		t.Errorf("отсутствующее поле должно быть пустым, получено %q", second.Location)
	}
}

func TestText_RejectsObjects(t *testing.T) {
	var res SubmitResult
	err := json.Unmarshal([]byte(`{"success": false, "message": {"nested": 1}}`), &res)
	if err == nil {
		t.Fatal("ожидалась ошибка для объекта в поле message")
	}
}

func TestDonation_Values(t *testing.T) {
	d := Donation{
		ItemName:     "罐頭",
		Quantity:     "10",
		Unit:         "罐",
		DonationDate: "2025-01-01",
	}

	v := d.Values()
	if v.Get("itemName") != "罐頭" || v.Get("quantity") != "10" || v.Get("donationDate") != "2025-01-01" {
		t.Errorf("Values() = %v", v)
	}
	if _, ok := v["expiryDate"]; !ok {
		t.Error("пустые опциональные поля должны передаваться")
	}
	if _, ok := v["photoUrl"]; ok {
		t.Error("photoUrl не должен передаваться без фото")
	}

	d.PhotoURL = "https://drive/photo"
	if got := d.Values().Get("photoUrl"); got != "https://drive/photo" {
		t.Errorf("photoUrl = %q", got)
	}
}
