package bot

import "github.com/hitoshi/outsourcebot/internal/model"

// faqMenuQuestions はFAQメニューに表示する登録済み質問の最大数。
const faqMenuQuestions = 2

// categoryColumns はカテゴリメニュー1行あたりのボタン数。
const categoryColumns = 2

func mainKeyboard() model.Keyboard {
	return model.Keyboard{
		{LabelOutsourcing, LabelContacts, LabelFAQ},
		{LabelNewRequest},
	}
}

func backKeyboard() model.Keyboard {
	return model.Keyboard{{LabelBack}}
}

// categoryKeyboard はサービス名をcategoryColumns個ずつ並べ、最後に戻るボタンを置く。
func categoryKeyboard(names []string) model.Keyboard {
	var kb model.Keyboard
	for i := 0; i < len(names); i += categoryColumns {
		end := min(i+categoryColumns, len(names))
		kb = append(kb, append([]string(nil), names[i:end]...))
	}
	return append(kb, []string{LabelBack})
}

// optionKeyboard はバリエーションを1行に1つずつ並べる。
func optionKeyboard(names []string) model.Keyboard {
	kb := make(model.Keyboard, 0, len(names)+1)
	for _, n := range names {
		kb = append(kb, []string{n})
	}
	return append(kb, []string{LabelBack})
}

// faqKeyboard は登録済み質問の先頭faqMenuQuestions件と、注文方法・戻るボタンを並べる。
func faqKeyboard(questions []string) model.Keyboard {
	if len(questions) > faqMenuQuestions {
		questions = questions[:faqMenuQuestions]
	}
	var kb model.Keyboard
	if len(questions) > 0 {
		kb = append(kb, append([]string(nil), questions...))
	}
	return append(kb, []string{LabelHowToOrder, LabelBack})
}
