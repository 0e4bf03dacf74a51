package main

import "food-ordering-api/models"

const imageBase = "https://res.cloudinary.com/dyzvzef89/image/upload/v1744968420/madras-meals/"

func sampleMenu() []*models.MenuItem {
	item := func(name string, price float64, category models.Category, slug, description string) *models.MenuItem {
		return &models.MenuItem{
			Name:        name,
			Description: description,
			Price:       price,
			Category:    category,
			Image:       imageBase + slug + ".jpg",
			IsAvailable: true,
		}
	}
	return []*models.MenuItem{
		item("Masala Dosa", 120, models.CategoryMainCourse, "masala-dosa", "Crispy dosa stuffed with spicy mashed potatoes."),
		item("Plain Dosa", 100, models.CategoryMainCourse, "plain-dosa", "Traditional South Indian rice crepe served with chutneys."),
		item("Idli", 80, models.CategoryAppetizer, "idli", "Steamed rice cakes, light and fluffy, served with sambar and chutney."),
		item("Medu Vada", 90, models.CategoryAppetizer, "medu-vada", "Crispy fried lentil donuts, perfect with coconut chutney."),
		item("Upma", 85, models.CategoryMainCourse, "upma", "Savory semolina porridge with vegetables and mustard seeds."),
		item("Pongal", 90, models.CategoryMainCourse, "pongal", "Comforting rice and lentil dish, seasoned with pepper and ghee."),
		item("Sambar", 70, models.CategoryMainCourse, "sambar", "Spicy and tangy lentil-based vegetable stew."),
		item("Rasam Rice", 60, models.CategoryMainCourse, "rasam-rice", "Hot and peppery tamarind soup served over rice."),
		item("Curd Rice", 70, models.CategoryMainCourse, "curd-rice", "Cool and refreshing yogurt rice with mustard tempering."),
		item("Filter Coffee", 40, models.CategoryBeverage, "filter-coffee", "Strong and aromatic South Indian filter coffee."),
	}
}
