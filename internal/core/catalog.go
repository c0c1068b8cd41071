package core

// DefaultActivity is a built-in activity template parents can register for a child.
type DefaultActivity struct {
	Code     string
	Name     string
	Points   int64
	Category Category
}

var defaultActivities = []DefaultActivity{
	{Code: "pos-1", Name: "Chegar cedo na escola", Points: 1, Category: Positivos},
	{Code: "pos-2", Name: "Chegar bem cedo na escola", Points: 2, Category: Positivos},
	{Code: "pos-3", Name: "Fazer a tarefa sozinho", Points: 2, Category: Positivos},
	{Code: "pos-4", Name: "Ajudar o irmão a fazer a tarefa", Points: 2, Category: Positivos},
	{Code: "pos-5", Name: "Comer toda a refeição", Points: 1, Category: Positivos},
	{Code: "pos-6", Name: "Comer frutas ou verduras", Points: 1, Category: Positivos},
	{Code: "pos-7", Name: "Dormir cedo", Points: 1, Category: Positivos},
	{Code: "pos-8", Name: "Limpeza e saúde", Points: 1, Category: Positivos},
	{Code: "pos-9", Name: "Organização", Points: 1, Category: Positivos},

	{Code: "esp-1", Name: "Ler um livro", Points: 1, Category: Especiais},
	{Code: "esp-2", Name: "Tirar nota 10", Points: 1, Category: Especiais},
	{Code: "esp-3", Name: "Viagem - \"se virar\"", Points: 1, Category: Especiais},
	{Code: "esp-4", Name: "Comida especial", Points: 1, Category: Especiais},
	{Code: "esp-5", Name: "Coragem", Points: 1, Category: Especiais},
	{Code: "esp-6", Name: "Ações especiais", Points: 1, Category: Especiais},

	{Code: "neg-1", Name: "Chegar atrasado na escola", Points: -1, Category: Negativos},
	{Code: "neg-2", Name: "Não fazer a tarefa", Points: -2, Category: Negativos},
	{Code: "neg-3", Name: "Não comer toda a refeição", Points: -1, Category: Negativos},
	{Code: "neg-4", Name: "Brigar com o irmão", Points: -1, Category: Negativos},
	{Code: "neg-5", Name: "Dar trabalho para dormir", Points: -1, Category: Negativos},
	{Code: "neg-6", Name: "Desobedecer os adultos", Points: -2, Category: Negativos},
	{Code: "neg-7", Name: "Falar bobeira", Points: -1, Category: Negativos},
	{Code: "neg-8", Name: "Gritar", Points: -1, Category: Negativos},

	{Code: "gra-1", Name: "Bater no irmão", Points: -1, Category: Graves},
	{Code: "gra-2", Name: "Falar palavrão", Points: -1, Category: Graves},
	{Code: "gra-3", Name: "Mentir", Points: -2, Category: Graves},
}

// DefaultActivities returns a copy of the built-in activity catalog.
func DefaultActivities() []DefaultActivity {
	return append([]DefaultActivity(nil), defaultActivities...)
}

// FindDefaultActivity looks up a catalog entry by code.
func FindDefaultActivity(code string) (DefaultActivity, bool) {
	for _, a := range defaultActivities {
		if a.Code == code {
			return a, true
		}
	}
	return DefaultActivity{}, false
}
