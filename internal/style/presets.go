package style

// Preset tables are ordered slices: substring lookups depend on declaration
// order (colour, subject) or on a stable length sort (style).

type colorPreset struct {
	Key string
	Hex string
}

type StylePreset struct {
	Type      Type
	Stroke    float64
	Modifiers []string
	Quality   Quality
}

type stylePresetEntry struct {
	Key    string
	Preset StylePreset
}

type subjectPreset struct {
	Key      string
	English  string
	Category Category
	Visual   string
	Kind     Kind
}

var colorPresets = []colorPreset{
	// iOS system palette
	{"蓝色", "#007AFF"}, {"蓝", "#007AFF"}, {"blue", "#007AFF"},
	{"深蓝", "#0A84FF"}, {"天蓝", "#5AC8FA"}, {"cyan", "#32ADE6"},
	{"绿色", "#34C759"}, {"绿", "#34C759"}, {"green", "#34C759"},
	{"深绿", "#30D158"}, {"浅绿", "#A8F29A"}, {"teal", "#30B0C7"},
	{"红色", "#FF3B30"}, {"红", "#FF3B30"}, {"red", "#FF3B30"},
	{"深红", "#D70015"}, {"暗红", "#8B0000"}, {"crimson", "#DC143C"},
	{"粉红", "#FF2D55"}, {"粉色", "#FF2D55"}, {"pink", "#FF2D55"},
	{"橙色", "#FF9500"}, {"橙", "#FF9500"}, {"orange", "#FF9500"},
	{"深橙", "#FF5722"}, {"浅橙", "#FFB347"},
	{"黄色", "#FFCC00"}, {"黄", "#FFCC00"}, {"yellow", "#FFCC00"},
	{"金色", "#FFD60A"}, {"gold", "#FFD700"},
	{"紫色", "#AF52DE"}, {"紫", "#AF52DE"}, {"purple", "#AF52DE"},
	{"深紫", "#5856D6"}, {"浅紫", "#BF5AF2"}, {"violet", "#8B00FF"},
	{"灰色", "#8E8E93"}, {"灰", "#8E8E93"}, {"gray", "#8E8E93"},
	{"深灰", "#48484A"}, {"浅灰", "#C7C7CC"}, {"silver", "#C0C0C0"},
	{"黑色", "#1C1C1E"}, {"黑", "#1C1C1E"}, {"black", "#000000"},
	{"白色", "#FFFFFF"}, {"白", "#FFFFFF"}, {"white", "#FFFFFF"},
	{"棕色", "#A2845E"}, {"棕", "#A2845E"}, {"brown", "#8B4513"},
	{"咖啡", "#704214"}, {"巧克力", "#663300"},
	{"薄荷", "#00C7BE"}, {"青", "#32ADE6"}, {"turquoise", "#40E0D0"},

	// brand colours
	{"企业蓝", "#0052CC"},
	{"支付宝", "#1890FF"},
	{"微信绿", "#09B83E"},
	{"字节", "#000000"},
	{"阿里红", "#E02020"},
	{"腾讯", "#0066FF"},
	{"星巴克", "#00704A"},
}

var stylePresets = []stylePresetEntry{
	// line
	{"线性", StylePreset{Type: FlatLine, Stroke: 2, Modifiers: []string{"线艺术", "基于笔画"}}},
	{"线条", StylePreset{Type: FlatLine, Stroke: 2, Modifiers: []string{"线艺术", "轮廓"}}},
	{"描边", StylePreset{Type: Outline, Stroke: 2, Modifiers: []string{"仅轮廓", "无填充"}}},
	{"轮廓", StylePreset{Type: Outline, Stroke: 2, Modifiers: []string{"轮廓风格", "矢量"}}},
	{"细线", StylePreset{Type: FlatLine, Stroke: 1, Modifiers: []string{"细笔画", "精致"}}},
	{"粗线", StylePreset{Type: FlatLine, Stroke: 3, Modifiers: []string{"粗笔画", "粗线"}}},

	// flat
	{"扁平", StylePreset{Type: FlatFill, Stroke: 0, Modifiers: []string{"扁平设计", "实心填充"}}},
	{"填充", StylePreset{Type: FlatFill, Stroke: 0, Modifiers: []string{"填充", "纯色"}}},
	{"极简", StylePreset{Type: FlatFill, Stroke: 0, Modifiers: []string{"极简", "超简洁", "干净"}}},
	{"现代", StylePreset{Type: FlatFill, Stroke: 0, Modifiers: []string{"现代设计", "当代风格"}}},

	// 3D
	{"3D", StylePreset{Type: Soft3D, Stroke: 0, Modifiers: []string{"柔和3D", "细微深度"}, Quality: QualityHigh}},
	{"3d", StylePreset{Type: Soft3D, Stroke: 0, Modifiers: []string{"3D效果", "体积感"}}},
	{"立体", StylePreset{Type: Soft3D, Stroke: 0, Modifiers: []string{"3D深度", "维度感"}}},
	{"圆润", StylePreset{Type: Soft3D, Stroke: 0, Modifiers: []string{"圆角", "柔和边缘", "光滑"}}},
	{"可爱", StylePreset{Type: Soft3D, Stroke: 0, Modifiers: []string{"可爱", "萌萌", "友好"}}},
	{"软萌", StylePreset{Type: Soft3D, Stroke: 0, Modifiers: []string{"柔软", "可爱", "蓬松", "圆角"}}},
	{"胖胖", StylePreset{Type: Soft3D, Stroke: 0, Modifiers: []string{"厚重", "圆角", "可爱", "俏皮"}}},
	{"光泽", StylePreset{Type: Glossy3D, Stroke: 0, Modifiers: []string{"光泽", "闪闪发光", "反光", "平滑"}, Quality: QualityHigh}},
	{"玻璃", StylePreset{Type: Glassmorphic, Stroke: 0, Modifiers: []string{"玻璃态", "毛玻璃", "半透明"}, Quality: QualityUltra}},

	// special
	{"像素", StylePreset{Type: Pixel, Stroke: 0, Modifiers: []string{"像素艺术", "8位风格", "复古"}}},
	{"手绘", StylePreset{Type: HandDrawn, Stroke: 2, Modifiers: []string{"手绘", "草图风", "有机"}}},
	{"科技", StylePreset{Type: FlatLine, Stroke: 1.5, Modifiers: []string{"科技风", "几何", "未来感", "赛博朋克"}}},
	{"科技感", StylePreset{Type: FlatLine, Stroke: 1.5, Modifiers: []string{"科技风", "现代", "几何"}}},
	{"霓虹", StylePreset{Type: Neon, Stroke: 1, Modifiers: []string{"霓虹发光", "发光线条", "电感"}, Quality: QualityUltra}},
	{"渐变", StylePreset{Type: FlatFill, Stroke: 0, Modifiers: []string{"渐变色", "色彩过渡", "平滑混合"}, Quality: QualityHigh}},
	{"水彩", StylePreset{Type: HandDrawn, Stroke: 0, Modifiers: []string{"水彩", "艺术", "绘画风"}}},
}

var subjectPresets = []subjectPreset{
	// navigation
	{"首页", "home house", CategoryNavigation, "简单建筑轮廓", UIIcon},
	{"主页", "home", CategoryNavigation, "", UIIcon},
	{"home", "home", CategoryNavigation, "", UIIcon},
	{"返回", "back arrow left", CategoryNavigation, "", UIIcon},
	{"前进", "forward arrow right", CategoryNavigation, "", UIIcon},
	{"刷新", "refresh reload circular arrows", CategoryAction, "", UIIcon},
	{"更多", "more dots menu", CategoryNavigation, "", UIIcon},
	{"菜单", "menu hamburger lines", CategoryNavigation, "", UIIcon},
	{"关闭", "close x cross", CategoryAction, "", UIIcon},
	{"缩小", "minimize collapse", CategoryAction, "", UIIcon},

	// e-commerce
	{"购物车", "shopping cart with wheels", CategoryEcommerce, "带物品的购物车", UIIcon},
	{"cart", "shopping cart", CategoryEcommerce, "", UIIcon},
	{"订单", "order receipt clipboard", CategoryEcommerce, "带复选标记的文档", UIIcon},
	{"order", "order document", CategoryEcommerce, "", UIIcon},
	{"商品", "product box package", CategoryEcommerce, "", UIIcon},
	{"优惠券", "ticket coupon discount", CategoryEcommerce, "折叠的票券", UIIcon},
	{"支付", "payment credit card wallet", CategoryFinance, "", UIIcon},
	{"钱包", "wallet money purse", CategoryFinance, "", UIIcon},
	{"收藏", "heart favorite star", CategoryAction, "", UIIcon},
	{"收藏夹", "heart bookmark favorite", CategoryAction, "", UIIcon},
	{"评价", "star rating review", CategoryAction, "", UIIcon},
	{"分享", "share arrow forward", CategoryAction, "", UIIcon},
	{"邮寄", "shipping package delivery", CategoryEcommerce, "", UIIcon},
	{"退货", "return back arrow", CategoryEcommerce, "", UIIcon},
	{"库存", "inventory boxes warehouse", CategoryEcommerce, "", UIIcon},

	// user
	{"我的", "my profile user person", CategoryUser, "头部剪影", UIIcon},
	{"个人", "person user profile", CategoryUser, "", UIIcon},
	{"用户", "user account person", CategoryUser, "", UIIcon},
	{"profile", "user profile", CategoryUser, "", UIIcon},
	{"头像", "avatar profile picture", CategoryUser, "", UIIcon},
	{"好友", "friends people two", CategorySocial, "", UIIcon},
	{"粉丝", "followers users group", CategorySocial, "", UIIcon},
	{"关注", "follow plus circle", CategorySocial, "", UIIcon},
	{"阻止", "block ban forbidden", CategoryUser, "", UIIcon},
	{"邀请", "invite share send", CategorySocial, "", UIIcon},

	// communication
	{"消息", "chat message bubble", CategoryCommunication, "对话气泡", UIIcon},
	{"message", "message chat", CategoryCommunication, "", UIIcon},
	{"通知", "notification bell alert", CategoryCommunication, "带徽章的铃铛", UIIcon},
	{"邮件", "email envelope mail", CategoryCommunication, "", UIIcon},
	{"电话", "phone call telephone", CategoryCommunication, "", UIIcon},
	{"评论", "comment reply message", CategoryCommunication, "", UIIcon},
	{"提及", "mention at symbol", CategoryCommunication, "", UIIcon},
	{"回复", "reply arrow message", CategoryCommunication, "", UIIcon},
	{"举报", "report flag warning", CategoryCommunication, "", UIIcon},
	{"翻译", "translate language globe", CategoryUtility, "", UIIcon},

	// actions
	{"设置", "settings gear cog", CategorySystem, "齿轮轮", UIIcon},
	{"settings", "settings gear", CategorySystem, "", UIIcon},
	{"搜索", "search magnifying glass", CategoryAction, "", UIIcon},
	{"search", "search", CategoryAction, "", UIIcon},
	{"发现", "discover explore compass", CategoryNavigation, "", UIIcon},
	{"推荐", "recommend suggestion lightning", CategoryAction, "", UIIcon},
	{"排序", "sort filter lines", CategoryAction, "", UIIcon},
	{"筛选", "filter funnel options", CategoryAction, "", UIIcon},
	{"下载", "download arrow down", CategoryAction, "", UIIcon},
	{"上传", "upload arrow up", CategoryAction, "", UIIcon},
	{"添加", "add plus circle", CategoryAction, "", UIIcon},
	{"删除", "delete trash bin remove", CategoryAction, "", UIIcon},
	{"编辑", "edit pencil write", CategoryAction, "", UIIcon},
	{"复制", "copy duplicate clone", CategoryAction, "", UIIcon},
	{"保存", "save floppy disk disk", CategoryAction, "", UIIcon},

	// media
	{"相机", "camera photo picture", CategoryMedia, "", UIIcon},
	{"图片", "image photo gallery", CategoryMedia, "", UIIcon},
	{"视频", "video play film", CategoryMedia, "", UIIcon},
	{"音乐", "music note sound", CategoryMedia, "", UIIcon},
	{"播放", "play triangle button", CategoryMedia, "播放按钮符号", UIIcon},
	{"暂停", "pause bars button", CategoryMedia, "", UIIcon},
	{"停止", "stop square button", CategoryMedia, "", UIIcon},
	{"音量", "volume speaker sound", CategoryMedia, "", UIIcon},
	{"麦克风", "microphone mic voice", CategoryMedia, "", UIIcon},
	{"录制", "record circle dot", CategoryMedia, "", UIIcon},

	// files and utilities
	{"文件", "file document paper", CategoryFile, "", UIIcon},
	{"文件夹", "folder directory", CategoryFile, "", UIIcon},
	{"文档", "document page text", CategoryFile, "", UIIcon},
	{"PDF", "pdf file document", CategoryFile, "", UIIcon},
	{"图片文件", "image file gallery", CategoryFile, "", UIIcon},
	{"压缩", "compress zip archive", CategoryFile, "", UIIcon},
	{"解压", "decompress unzip extract", CategoryFile, "", UIIcon},
	{"日历", "calendar date day", CategoryUtility, "日历网格", UIIcon},
	{"时钟", "clock time watch", CategoryUtility, "", UIIcon},
	{"计时", "timer stopwatch", CategoryUtility, "", UIIcon},
	{"位置", "location pin map marker", CategoryUtility, "", UIIcon},
	{"地图", "map navigation world", CategoryUtility, "", UIIcon},
	{"历史", "history clock arrow back", CategoryAction, "回退箭头或时钟符号", UIIcon},
	{"历史记录", "history clock arrow back", CategoryAction, "回退箭头或时钟符号", UIIcon},

	// system and state
	{"帮助", "help question mark circle", CategorySystem, "", UIIcon},
	{"信息", "info information circle", CategorySystem, "", UIIcon},
	{"警告", "warning alert triangle", CategorySystem, "", UIIcon},
	{"成功", "success checkmark tick", CategorySystem, "绿色对勾", UIIcon},
	{"错误", "error cross x mark", CategorySystem, "红叉", UIIcon},
	{"锁定", "lock padlock security", CategorySecurity, "", UIIcon},
	{"解锁", "unlock padlock open", CategorySecurity, "", UIIcon},
	{"隐藏", "hide eye slash", CategoryAction, "", UIIcon},
	{"显示", "show eye open", CategoryAction, "", UIIcon},
	{"深色", "dark mode moon", CategorySystem, "", UIIcon},
	{"浅色", "light mode sun", CategorySystem, "", UIIcon},
	{"切换", "toggle switch button", CategoryAction, "", UIIcon},

	// misc tools
	{"二维码", "qr code barcode", CategoryUtility, "", UIIcon},
	{"标签", "tag label", CategoryUtility, "", UIIcon},
	{"分类", "category classify", CategoryUtility, "", UIIcon},
	{"统计", "statistics chart graph", CategoryUtility, "", UIIcon},
	{"详情", "details info expand", CategoryAction, "", UIIcon},
	{"预览", "preview eye view", CategoryAction, "", UIIcon},

	// brand (application icons)
	{"星巴克", "starbucks siren logo coffee", CategoryGeneral, "美人鱼logo符号", AppIcon},
}

var (
	colorIndex   = indexColors(colorPresets)
	subjectIndex = indexSubjects(subjectPresets)
	styleByKey   = indexStyles(stylePresets)
	styleKeys    = sortedStyleKeys(stylePresets)
)

// SubjectKeys lists the subject preset trigger words in table order.
func SubjectKeys() []string {
	out := make([]string, 0, len(subjectPresets))
	for _, p := range subjectPresets {
		out = append(out, p.Key)
	}
	return out
}

func indexColors(list []colorPreset) map[string]string {
	out := make(map[string]string, len(list))
	for _, p := range list {
		if _, ok := out[p.Key]; !ok {
			out[p.Key] = p.Hex
		}
	}
	return out
}

func indexSubjects(list []subjectPreset) map[string]subjectPreset {
	out := make(map[string]subjectPreset, len(list))
	for _, p := range list {
		if _, ok := out[p.Key]; !ok {
			out[p.Key] = p
		}
	}
	return out
}

func indexStyles(list []stylePresetEntry) map[string]StylePreset {
	out := make(map[string]StylePreset, len(list))
	for _, e := range list {
		out[e.Key] = e.Preset
	}
	return out
}
