package moderation

// forbiddenTerms triggers rejection. Profanity, insults and words that do not
// belong on a gratitude wall.
var forbiddenTerms = []string{
	// мат
	"блять", "блядь", "бля", "бляд", "блят",
	"хуй", "хуйня", "хуе", "хуё", "хуев", "хуевый",
	"пизда", "пиздец", "пизд", "пиздюк", "пиздюля",
	"ебан", "ебать", "ебал", "ебат", "ебану", "ебануть",
	"ебло", "ебанько", "ебу", "ебаш",
	"сука", "суки", "сучара", "сучий",
	"мудак", "мудачок", "мудила",
	"гандон", "гондон",
	"залупа", "залуп",
	"дроч", "дрочить",
	"шлюха", "шлюх",
	"блядина", "бляди",

	// оскорбления
	"жопа", "жоп", "жопка", "жопный",
	"дурак", "дура", "дурачок", "дурацкий",
	"идиот", "идиотка", "идиотский",
	"тупой", "тупая", "тупость",
	"дебил", "дебилка", "дебильный",
	"кретин", "кретинка",
	"придурок", "придурочный",
	"мразь", "мразота",
	"гад", "гадина",
	"сволочь", "сволочи",
	"подонок", "подонки",
	"ублюдок", "ублюдки",
	"скотина", "скотины",

	// негатив
	"ненавижу", "ненависть",
	"убить", "убийство",
	"смерть", "умереть",
	"плохо", "плохой", "плохая",
	"гадость", "гадкий",
}

// allowedWords are benign words that embed a forbidden root.
var allowedWords = []string{
	"родители", "родителей", "родителям", "родителями",
	"корабля", "кораблям", "рубля", "рублям", "сабля", "дубля",
	"употреблять", "употребляю", "истреблять",
	"хлебу", "хлебушек", "хлебушка", "небу",
	"требую", "требуют", "требует", "требуется", "потребуется", "потребуют",
	"ребус", "ребусы", "ребусов",
	"оскорблять", "оскорбляю", "оскорбляет", "оскорбляют",
	"гадать", "угадать", "загадка", "загадки", "догадка", "наугад", "гаджет", "гаджеты",
	"процедура", "процедуры",
	"барсука", "барсуки",
	"наступая",
	"губить", "погубить",
	"неплохо", "неплохой", "неплохая",
}

// allowedPhrases switch the filter into permissive mode for the tokens they
// contain.
var allowedPhrases = []string{
	"за родителей",
	"мирное небо",
	"мирному небу",
	"по небу",
	"к небу",
	"хлеб насущный",
	"хлебу насущному",
	"загадка жизни",
}
