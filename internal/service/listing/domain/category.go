// internal/service/listing/domain/category.go
package domain

import "strings"

// Category 是固定的物品分类
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

const DefaultCategory = "otros"

var categories = []Category{
	{ID: "electronica", Name: "Electrónica", Icon: "Smartphone", Description: "Teléfonos, computadoras, tablets y más"},
	{ID: "muebles", Name: "Muebles", Icon: "Sofa", Description: "Sofás, mesas, sillas y decoración"},
	{ID: "ropa", Name: "Ropa", Icon: "Shirt", Description: "Ropa, calzado y accesorios"},
	{ID: "hogar", Name: "Hogar", Icon: "Home", Description: "Artículos para el hogar y cocina"},
	{ID: "deportes", Name: "Deportes", Icon: "Dumbbell", Description: "Equipos deportivos y fitness"},
	{ID: "libros", Name: "Libros", Icon: "BookOpen", Description: "Libros, revistas y material educativo"},
	{ID: "juguetes", Name: "Juguetes", Icon: "Gamepad2", Description: "Juguetes y juegos para todas las edades"},
	{ID: "herramientas", Name: "Herramientas", Icon: "Wrench", Description: "Herramientas y equipos de trabajo"},
	{ID: "vehiculos", Name: "Vehículos", Icon: "Car", Description: "Bicicletas, motos y accesorios"},
	{ID: DefaultCategory, Name: "Otros", Icon: "Package", Description: "Otros artículos diversos"},
}

// 前端历史上使用过的分类别名
var categoryAliases = map[string]string{
	"tecnologia":   "electronica",
	"telefonos":    "electronica",
	"computadores": "electronica",
	"oficina":      "muebles",
}

// Categories 返回分类目录的副本，顺序固定
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// NormalizeCategory 把用户输入的分类归一化为目录中的 ID，未知分类归入 otros
func NormalizeCategory(s string) string {
	id := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := categoryAliases[id]; ok {
		return alias
	}
	for _, c := range categories {
		if c.ID == id {
			return id
		}
	}
	return DefaultCategory
}
